package scanner

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// charsetPrefix is the exact byte sequence a stylesheet must start with for
// its @charset rule to be honored.
var charsetPrefix = []byte(`@charset "`)

// maxCharsetLen bounds how far into the stream a @charset rule is searched.
const maxCharsetLen = 1024

// Decode converts a byte stream to a string using the stylesheet's encoding.
//
// A byte order mark always wins. Otherwise a leading @charset rule is used
// if it names a known encoding, then the fallback label, then UTF-8. Bytes
// that are invalid in the chosen encoding decode to U+FFFD.
func Decode(b []byte, fallback string) (string, error) {
	enc, err := DetectEncoding(b, fallback)
	if err != nil {
		return "", err
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), b)
	if err != nil {
		return "", fmt.Errorf("decode stylesheet: %w", err)
	}
	return string(out), nil
}

// DetectEncoding returns the encoding declared by a leading @charset rule,
// or the fallback encoding when there is none. A BOM is not considered here;
// Decode applies it on top of the returned encoding.
func DetectEncoding(b []byte, fallback string) (encoding.Encoding, error) {
	if label, ok := charsetLabel(b); ok {
		if enc, err := htmlindex.Get(label); err == nil {
			// A UTF-16 label cannot be right: the rule itself was read as ASCII.
			if name, _ := htmlindex.Name(enc); name == "utf-16be" || name == "utf-16le" {
				return unicode.UTF8, nil
			}
			return enc, nil
		}
	}

	if fallback != "" {
		enc, err := htmlindex.Get(fallback)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", fallback, err)
		}
		return enc, nil
	}
	return unicode.UTF8, nil
}

// charsetLabel extracts the label from `@charset "label";`.
func charsetLabel(b []byte) (string, bool) {
	if !bytes.HasPrefix(b, charsetPrefix) {
		return "", false
	}
	rest := b[len(charsetPrefix):]
	if len(rest) > maxCharsetLen-len(charsetPrefix) {
		rest = rest[:maxCharsetLen-len(charsetPrefix)]
	}

	i := bytes.IndexByte(rest, '"')
	if i < 0 || i+1 >= len(rest) || rest[i+1] != ';' {
		return "", false
	}
	for _, c := range rest[:i] {
		if c >= 0x80 {
			return "", false
		}
	}
	return string(rest[:i]), true
}
