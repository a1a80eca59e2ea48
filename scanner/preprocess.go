package scanner

import (
	"strings"
	"unicode/utf8"
)

// Preprocess normalizes raw CSS source before scanning.
//
// CRLF, CR and FF are replaced with LF, NUL is replaced with U+FFFD and so is
// every byte that is not part of a valid UTF-8 sequence.
func Preprocess(input string) string {
	if !needsPreprocess(input) {
		return input
	}

	var buf strings.Builder
	buf.Grow(len(input))
	for i := 0; i < len(input); {
		ch, size := utf8.DecodeRuneInString(input[i:])
		i += size

		switch ch {
		case '\r':
			if i < len(input) && input[i] == '\n' {
				i++
			}
			buf.WriteByte('\n')
		case '\f':
			buf.WriteByte('\n')
		case 0, utf8.RuneError:
			buf.WriteRune(utf8.RuneError)
		default:
			buf.WriteRune(ch)
		}
	}
	return buf.String()
}

func needsPreprocess(input string) bool {
	return strings.ContainsAny(input, "\r\f\x00") || !utf8.ValidString(input)
}
