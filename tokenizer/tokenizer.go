package tokenizer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cssyntax/css/scanner"
	"github.com/cssyntax/css/token"
)

// Options configures tokenization.
type Options struct {
	// PreserveComments emits comment tokens instead of discarding comments.
	PreserveComments bool

	// PreserveHacks keeps the IE "*" hack together with the name it prefixes
	// (e.g. "*zoom") instead of splitting it into a delim and an ident.
	PreserveHacks bool
}

// Tokenizer implements a CSS Syntax Level 3 tokenizer.
//
// Tokenization never fails. Malformed input yields bad-string, bad-url or
// error-flagged delim tokens and a positioned entry in Errors.
type Tokenizer struct {
	// Errors contains a list of all errors that occur during tokenization.
	Errors []*Error

	s    *scanner.Scanner
	opts Options
}

// New returns a new instance of Tokenizer for the given CSS source.
func New(input string, opts Options) *Tokenizer {
	return &Tokenizer{
		s:    scanner.New(scanner.Preprocess(input)),
		opts: opts,
	}
}

// NewBytes returns a Tokenizer for an encoded stylesheet. The encoding is
// detected from a BOM or @charset rule, then fallback, then UTF-8.
func NewBytes(b []byte, fallback string, opts Options) (*Tokenizer, error) {
	input, err := scanner.Decode(b, fallback)
	if err != nil {
		return nil, err
	}
	return New(input, opts), nil
}

// Tokenize returns all tokens in input, excluding the final EOF.
func Tokenize(input string, opts Options) []token.Token {
	return New(input, opts).Tokenize()
}

// Tokenize rewinds to the start of input and returns all tokens,
// excluding the final EOF.
func (t *Tokenizer) Tokenize() []token.Token {
	t.s.Reset()
	t.Errors = nil

	var a []token.Token
	for {
		tok := t.Scan()
		if _, ok := tok.(*token.EOF); ok {
			return a
		}
		a = append(a, tok)
	}
}

// Scan returns the next token. Once input is exhausted it returns EOF on
// every call.
func (t *Tokenizer) Scan() token.Token {
	s := t.s
	for {
		s.Mark()
		if s.EOS() {
			return &token.EOF{Loc: t.loc()}
		}
		if s.Scan(isWhitespace) != "" {
			return &token.Whitespace{Loc: t.loc()}
		}

		ch := s.Consume()
		switch ch {
		case '"', '\'':
			return t.scanString(ch)

		case '#':
			// A name or escape after the hash makes a hash token.
			if isName(s.PeekRune()) || t.validEscapeAt(0) {
				typ := token.TypeUnrestricted
				if t.startsIdentAt(0) {
					typ = token.TypeID
				}
				v := t.scanName()
				return &token.Hash{Loc: t.loc(), Type: typ, Value: v}
			}
			return t.delim(ch)

		case '$':
			if t.consumeIf('=') {
				return &token.SuffixMatch{Loc: t.loc()}
			}
			return t.delim(ch)

		case '*':
			if t.consumeIf('=') {
				return &token.SubstringMatch{Loc: t.loc()}
			} else if t.opts.PreserveHacks && isNameStart(s.PeekRune()) {
				s.Reconsume()
				return t.scanIdent()
			}
			return t.delim(ch)

		case '^':
			if t.consumeIf('=') {
				return &token.PrefixMatch{Loc: t.loc()}
			}
			return t.delim(ch)

		case '~':
			if t.consumeIf('=') {
				return &token.IncludeMatch{Loc: t.loc()}
			}
			return t.delim(ch)

		case '|':
			if t.consumeIf('=') {
				return &token.DashMatch{Loc: t.loc()}
			} else if t.consumeIf('|') {
				return &token.Column{Loc: t.loc()}
			}
			return t.delim(ch)

		case '+', '.':
			if startsNumber(ch, s.PeekAt(0), s.PeekAt(1)) {
				s.Reconsume()
				return t.scanNumeric()
			}
			return t.delim(ch)

		case '-':
			// Scan the next two code points to decide between a number,
			// an identifier and a CDC.
			ch1, ch2 := s.PeekAt(0), s.PeekAt(1)
			if startsNumber(ch, ch1, ch2) {
				s.Reconsume()
				return t.scanNumeric()
			} else if startsIdent(ch, ch1, ch2) {
				s.Reconsume()
				return t.scanIdent()
			} else if ch1 == '-' && ch2 == '>' {
				s.Consume()
				s.Consume()
				return &token.CDC{Loc: t.loc()}
			}
			return t.delim(ch)

		case '/':
			if s.PeekRune() != '*' {
				return t.delim(ch)
			}
			s.Consume()

			// An unterminated comment runs to the end of input.
			text, ok := s.ScanUntil("*/")
			if ok {
				text = text[:len(text)-2]
			} else {
				text = s.ConsumeRest()
			}
			if t.opts.PreserveComments {
				return &token.Comment{Loc: t.loc(), Value: text}
			}

		case '<':
			if s.Peek(3) == "!--" {
				s.Consume()
				s.Consume()
				s.Consume()
				return &token.CDO{Loc: t.loc()}
			}
			return t.delim(ch)

		case '@':
			if t.startsIdentAt(0) {
				v := t.scanName()
				return &token.AtKeyword{Loc: t.loc(), Value: v}
			}
			return t.delim(ch)

		case '\\':
			if s.PeekRune() != '\n' {
				s.Reconsume()
				return t.scanIdent()
			}
			t.errorf("unescaped \\")
			return &token.Delim{Loc: t.loc(), Value: string(ch), Error: true}

		case 'u', 'U':
			if ch1 := s.PeekAt(1); s.PeekRune() == '+' && (isHexDigit(ch1) || ch1 == '?') {
				s.Consume()
				return t.scanUnicodeRange()
			}
			s.Reconsume()
			return t.scanIdent()

		case '(':
			return &token.LParen{Loc: t.loc()}
		case ')':
			return &token.RParen{Loc: t.loc()}
		case '[':
			return &token.LBrack{Loc: t.loc()}
		case ']':
			return &token.RBrack{Loc: t.loc()}
		case '{':
			return &token.LBrace{Loc: t.loc()}
		case '}':
			return &token.RBrace{Loc: t.loc()}
		case ',':
			return &token.Comma{Loc: t.loc()}
		case ':':
			return &token.Colon{Loc: t.loc()}
		case ';':
			return &token.Semicolon{Loc: t.loc()}

		default:
			if isDigit(ch) {
				s.Reconsume()
				return t.scanNumeric()
			} else if isNameStart(ch) {
				s.Reconsume()
				return t.scanIdent()
			}
			return t.delim(ch)
		}
	}
}

// scanString consumes a quoted string. (§4.3.4)
//
// This assumes that the opening quote has just been consumed.
// An EOF closes out a string but does not return an error.
// A newline is left in the input and produces a bad-string token.
func (t *Tokenizer) scanString(ending rune) token.Token {
	var buf strings.Builder
	for {
		switch ch := t.s.Consume(); ch {
		case scanner.EOF, ending:
			return &token.String{Loc: t.loc(), Ending: ending, Value: buf.String()}
		case '\n':
			t.s.Reconsume()
			t.errorf("unterminated string")
			return &token.BadString{Loc: t.loc(), Value: buf.String()}
		case '\\':
			switch t.s.PeekRune() {
			case scanner.EOF:
				// nop
			case '\n':
				// Escaped newlines are line continuations.
				t.s.Consume()
			default:
				buf.WriteRune(t.scanEscape())
			}
		default:
			buf.WriteRune(ch)
		}
	}
}

// scanNumeric consumes a number, percentage or dimension.
//
// This assumes that the next code point is a +, -, . or digit.
func (t *Tokenizer) scanNumeric() token.Token {
	repr, typ := t.scanNumber()
	value := parseNumber(repr)

	// If the number is immediately followed by an identifier then scan dimension.
	if t.startsIdentAt(0) {
		unit := t.scanName()
		return &token.Dimension{Loc: t.loc(), Type: typ, Value: value, Repr: repr, Unit: unit}
	}

	// If the number is followed by a percent sign then return a percentage.
	if t.consumeIf('%') {
		return &token.Percentage{Loc: t.loc(), Type: typ, Value: value, Repr: repr}
	}
	return &token.Number{Loc: t.loc(), Type: typ, Value: value, Repr: repr}
}

// scanNumber consumes the textual representation of a number and reports
// whether it is an integer or has a fraction or exponent.
func (t *Tokenizer) scanNumber() (repr, typ string) {
	s := t.s
	var buf strings.Builder
	typ = token.TypeInteger

	if ch := s.PeekRune(); ch == '+' || ch == '-' {
		buf.WriteRune(s.Consume())
	}
	buf.WriteString(s.Scan(isDigit))

	// A full stop only belongs to the number when a digit follows it.
	if s.PeekRune() == '.' && isDigit(s.PeekAt(1)) {
		buf.WriteRune(s.Consume())
		buf.WriteString(s.Scan(isDigit))
		typ = token.TypeNumber
	}

	// Consume scientific notation (e0, e+0, e-0, E0, E+0, E-0).
	if ch := s.PeekRune(); ch == 'e' || ch == 'E' {
		n := 1
		if sign := s.PeekAt(1); sign == '+' || sign == '-' {
			n = 2
		}
		if isDigit(s.PeekAt(n)) {
			for i := 0; i < n; i++ {
				buf.WriteRune(s.Consume())
			}
			buf.WriteString(s.Scan(isDigit))
			typ = token.TypeNumber
		}
	}
	return buf.String(), typ
}

// parseNumber converts a number representation to its value. Values that
// overflow a float64 become infinite.
func parseNumber(repr string) float64 {
	v, _ := strconv.ParseFloat(repr, 64)
	return v
}

// scanName consumes contiguous name code points and escaped code points.
func (t *Tokenizer) scanName() string {
	var buf strings.Builder
	for {
		if run := t.s.Scan(isName); run != "" {
			buf.WriteString(run)
			continue
		}

		switch ch := t.s.PeekRune(); {
		case ch == '\\' && t.validEscapeAt(0):
			t.s.Consume()
			buf.WriteRune(t.scanEscape())
		case ch == '*' && t.opts.PreserveHacks:
			buf.WriteRune(t.s.Consume())
		default:
			return buf.String()
		}
	}
}

// scanIdent consumes an ident-like token.
// This function can return an ident, function, url, or bad-url.
func (t *Tokenizer) scanIdent() token.Token {
	v := t.scanName()
	if !t.consumeIf('(') {
		return &token.Ident{Loc: t.loc(), Value: v}
	}
	if strings.EqualFold(v, "url") {
		return t.scanURL()
	}
	return &token.Function{Loc: t.loc(), Value: v}
}

// scanURL consumes the contents of a URL function.
// This function assumes that the "url(" has just been consumed.
// This function can return a url or bad-url token.
func (t *Tokenizer) scanURL() token.Token {
	s := t.s
	s.Scan(isWhitespace)
	if s.EOS() {
		return &token.URL{Loc: t.loc()}
	}

	// A quoted url takes its value from the string.
	if ch := s.PeekRune(); ch == '"' || ch == '\'' {
		str := t.scanString(s.Consume())
		if bad, ok := str.(*token.BadString); ok {
			v := bad.Value + t.scanBadURL()
			return &token.BadURL{Loc: t.loc(), Value: v}
		}

		v := str.(*token.String).Value
		s.Scan(isWhitespace)
		if s.EOS() || s.PeekRune() == ')' {
			s.Consume()
			return &token.URL{Loc: t.loc(), Value: v}
		}
		v += t.scanBadURL()
		return &token.BadURL{Loc: t.loc(), Value: v}
	}

	var buf strings.Builder
	for !s.EOS() {
		ch := s.Consume()
		switch {
		case ch == ')':
			return &token.URL{Loc: t.loc(), Value: buf.String()}

		case isWhitespace(ch):
			// Whitespace may only be followed by the closing parenthesis.
			s.Scan(isWhitespace)
			if s.EOS() || s.PeekRune() == ')' {
				s.Consume()
				return &token.URL{Loc: t.loc(), Value: buf.String()}
			}
			v := buf.String() + t.scanBadURL()
			return &token.BadURL{Loc: t.loc(), Value: v}

		case ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch):
			t.errorf("invalid url code point: %c (%U)", ch, ch)
			v := buf.String() + t.scanBadURL()
			return &token.BadURL{Loc: t.loc(), Value: v, Error: true}

		case ch == '\\':
			if s.PeekRune() == '\n' {
				t.errorf("unescaped \\ in url")
				v := buf.String() + t.scanBadURL()
				return &token.BadURL{Loc: t.loc(), Value: v, Error: true}
			}
			buf.WriteRune(t.scanEscape())

		default:
			buf.WriteRune(ch)
		}
	}
	return &token.URL{Loc: t.loc(), Value: buf.String()}
}

// scanBadURL recovers from a malformed URL by consuming everything up to
// and including the next ")". The consumed text is returned with escapes
// decoded; the ")" is not included.
func (t *Tokenizer) scanBadURL() string {
	var buf strings.Builder
	for !t.s.EOS() {
		if t.validEscapeAt(0) {
			t.s.Consume()
			buf.WriteRune(t.scanEscape())
			continue
		}
		ch := t.s.Consume()
		if ch == ')' {
			break
		}
		buf.WriteRune(ch)
	}
	return buf.String()
}

// scanUnicodeRange consumes a unicode-range token.
// This assumes the "u+" has just been consumed.
func (t *Tokenizer) scanUnicodeRange() token.Token {
	s := t.s

	// Consume up to 6 hex digits, then question marks to total 6 characters.
	v := s.ScanN(isHexDigit, 6)
	for len(v) < 6 && s.PeekRune() == '?' {
		v += string(s.Consume())
	}

	// Wildcards span the range from all zeros to all Fs.
	if strings.Contains(v, "?") {
		start := parseHex(strings.ReplaceAll(v, "?", "0"))
		end := parseHex(strings.ReplaceAll(v, "?", "F"))
		return &token.UnicodeRange{Loc: t.loc(), Start: start, End: end}
	}

	start := parseHex(v)
	end := start

	// If the next two code points are a "-" and a hex digit then consume the end.
	if s.PeekRune() == '-' && isHexDigit(s.PeekAt(1)) {
		s.Consume()
		end = parseHex(s.ScanN(isHexDigit, 6))
	}
	return &token.UnicodeRange{Loc: t.loc(), Start: start, End: end}
}

// scanEscape consumes an escaped code point.
// This assumes the backslash has just been consumed.
func (t *Tokenizer) scanEscape() rune {
	if t.s.EOS() {
		return unicode.ReplacementChar
	}

	hex := t.s.ScanN(isHexDigit, 6)
	if hex == "" {
		return t.s.Consume()
	}

	// A single whitespace code point terminates a hex escape.
	if isWhitespace(t.s.PeekRune()) {
		t.s.Consume()
	}

	v := parseHex(hex)
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > unicode.MaxRune {
		return unicode.ReplacementChar
	}
	return rune(v)
}

// validEscapeAt returns true if the code points i and i+1 past the cursor
// form a valid escape. A backslash at the end of input counts as valid.
func (t *Tokenizer) validEscapeAt(i int) bool {
	return t.s.PeekAt(i) == '\\' && t.s.PeekAt(i+1) != '\n'
}

// startsIdentAt returns true if the code points starting i past the cursor
// would start an identifier.
func (t *Tokenizer) startsIdentAt(i int) bool {
	return startsIdent(t.s.PeekAt(i), t.s.PeekAt(i+1), t.s.PeekAt(i+2))
}

// consumeIf consumes the next code point if it equals ch.
func (t *Tokenizer) consumeIf(ch rune) bool {
	if t.s.PeekRune() != ch {
		return false
	}
	t.s.Consume()
	return true
}

func (t *Tokenizer) delim(ch rune) token.Token {
	return &token.Delim{Loc: t.loc(), Value: string(ch)}
}

// loc returns the location of the token currently being scanned.
func (t *Tokenizer) loc() token.Loc {
	return token.At(t.s.Marker(), t.s.Marked())
}

func (t *Tokenizer) errorf(format string, args ...interface{}) {
	t.Errors = append(t.Errors, &Error{Message: fmt.Sprintf(format, args...), Pos: t.s.Marker()})
}

// parseHex parses at most 6 hex digits; larger input cannot occur.
func parseHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// startsIdent returns true if the three code points would start an identifier.
func startsIdent(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '-':
		return isNameStart(ch1) || (ch1 == '\\' && ch2 != '\n')
	case ch0 == '\\':
		return ch1 != '\n'
	}
	return isNameStart(ch0)
}

// startsNumber returns true if the three code points would start a number.
func startsNumber(ch0, ch1, ch2 rune) bool {
	switch {
	case ch0 == '+' || ch0 == '-':
		return isDigit(ch1) || (ch1 == '.' && isDigit(ch2))
	case ch0 == '.':
		return isDigit(ch1)
	}
	return isDigit(ch0)
}

// isWhitespace returns true if the rune is a space, tab, or newline.
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n'
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isHexDigit returns true if the rune is a hex digit.
func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isNonASCII returns true if the rune is U+0080 or above.
func isNonASCII(ch rune) bool {
	return ch >= '\u0080'
}

// isNameStart returns true if the rune can start a name.
func isNameStart(ch rune) bool {
	return isLetter(ch) || isNonASCII(ch) || ch == '_'
}

// isName returns true if the character is a name code point.
func isName(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

// isNonPrintable returns true if the character is non-printable.
func isNonPrintable(ch rune) bool {
	return (ch >= '\u0000' && ch <= '\u0008') || ch == '\u000B' || (ch >= '\u000E' && ch <= '\u001F') || ch == '\u007F'
}

// Error represents a tokenization error.
type Error struct {
	Message string
	Pos     int
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Pos)
}
