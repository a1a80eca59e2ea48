package scanner

// EOF is returned by Consume and the peek functions at the end of input.
const EOF rune = -1

// Scanner is a cursor over the code points of preprocessed CSS source.
//
// Positions are code point offsets, not byte offsets. The scanner keeps a
// marker that can be set at the start of a token and later used to retrieve
// the exact source text the token was produced from.
type Scanner struct {
	src    []rune
	pos    int  // index of the next code point to be consumed
	marker int  // start of the marked region
	curr   rune // last consumed code point
}

// New returns a new instance of Scanner. The input should already have been
// passed through Preprocess.
func New(input string) *Scanner {
	s := &Scanner{src: []rune(input)}
	s.Reset()
	return s
}

// Reset moves the cursor and the marker back to the start of input.
func (s *Scanner) Reset() {
	s.pos, s.marker, s.curr = 0, 0, EOF
}

// Len returns the total number of code points in the input.
func (s *Scanner) Len() int { return len(s.src) }

// Pos returns the offset of the next code point to be consumed.
func (s *Scanner) Pos() int { return s.pos }

// EOS returns true when every code point has been consumed.
func (s *Scanner) EOS() bool { return s.pos >= len(s.src) }

// Current returns the most recently consumed code point.
func (s *Scanner) Current() rune { return s.curr }

// Consume returns the next code point and advances the cursor.
// Returns EOF without moving when the input is exhausted.
func (s *Scanner) Consume() rune {
	if s.pos >= len(s.src) {
		s.curr = EOF
		return EOF
	}
	s.curr = s.src[s.pos]
	s.pos++
	return s.curr
}

// ConsumeRest consumes and returns everything up to the end of input.
func (s *Scanner) ConsumeRest() string {
	if s.pos >= len(s.src) {
		return ""
	}
	rest := string(s.src[s.pos:])
	s.pos = len(s.src)
	s.curr = s.src[s.pos-1]
	return rest
}

// Reconsume moves the cursor back by one code point so that the next call
// to Consume returns the current code point again.
func (s *Scanner) Reconsume() {
	if s.pos > 0 {
		s.pos--
	}
}

// PeekRune returns the next code point without consuming it.
func (s *Scanner) PeekRune() rune { return s.PeekAt(0) }

// PeekAt returns the code point i positions past the cursor, or EOF.
func (s *Scanner) PeekAt(i int) rune {
	if i < 0 || s.pos+i >= len(s.src) {
		return EOF
	}
	return s.src[s.pos+i]
}

// Peek returns up to n code points following the cursor without consuming
// them. Fewer are returned near the end of input.
func (s *Scanner) Peek(n int) string {
	end := s.pos + n
	if end > len(s.src) {
		end = len(s.src)
	}
	if n <= 0 || s.pos >= end {
		return ""
	}
	return string(s.src[s.pos:end])
}

// Mark records the cursor position as the start of a token.
func (s *Scanner) Mark() { s.marker = s.pos }

// Marker returns the marked position.
func (s *Scanner) Marker() int { return s.marker }

// Marked returns the source text between the marker and the cursor.
func (s *Scanner) Marked() string {
	if s.marker >= s.pos || s.marker >= len(s.src) {
		return ""
	}
	return string(s.src[s.marker:s.pos])
}

// Scan consumes the longest run of code points matching fn starting at the
// cursor. Returns an empty string without moving if the next code point
// does not match.
func (s *Scanner) Scan(fn func(rune) bool) string {
	return s.ScanN(fn, -1)
}

// ScanN is like Scan but consumes at most max code points. A negative max
// means no limit.
func (s *Scanner) ScanN(fn func(rune) bool, max int) string {
	start := s.pos
	for s.pos < len(s.src) && (max < 0 || s.pos-start < max) && fn(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return ""
	}
	s.curr = s.src[s.pos-1]
	return string(s.src[start:s.pos])
}

// ScanUntil consumes everything up to and including the first occurrence of
// delim. Returns false without moving if delim does not occur.
func (s *Scanner) ScanUntil(delim string) (string, bool) {
	d := []rune(delim)
	if len(d) == 0 {
		return "", true
	}
outer:
	for i := s.pos; i+len(d) <= len(s.src); i++ {
		for j := range d {
			if s.src[i+j] != d[j] {
				continue outer
			}
		}
		start := s.pos
		s.pos = i + len(d)
		s.curr = s.src[s.pos-1]
		return string(s.src[start:s.pos]), true
	}
	return "", false
}
