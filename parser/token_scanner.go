package parser

import (
	"unicode/utf8"

	"github.com/cssyntax/css/token"
)

// TokenScanner represents a scanner for a fixed list of tokens.
//
// Spans returned by Collect are sub-slices of the scanner's token list with
// their capacity capped, so nodes share tokens without aliasing on append.
type TokenScanner struct {
	tokens []token.Token
	pos    int // index of the next token
	curr   token.Token
	eof    *token.EOF
	ateof  bool // last Scan returned EOF
}

// NewTokenScanner returns a new instance of TokenScanner.
func NewTokenScanner(tokens []token.Token) *TokenScanner {
	offset := 0
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		offset = last.Pos() + utf8.RuneCountInString(last.Raw())
	}
	eof := &token.EOF{Loc: token.At(offset, "")}
	return &TokenScanner{tokens: tokens, curr: eof, eof: eof}
}

// Tokens returns the full list of tokens being scanned.
func (s *TokenScanner) Tokens() []token.Token { return s.tokens }

// Current returns the most recently scanned token.
func (s *TokenScanner) Current() token.Token { return s.curr }

// Scan advances to the next token and returns it. At the end of the list it
// returns EOF without advancing.
func (s *TokenScanner) Scan() token.Token {
	if s.pos >= len(s.tokens) {
		s.ateof = true
		s.curr = s.eof
		return s.curr
	}
	s.ateof = false
	s.curr = s.tokens[s.pos]
	s.pos++
	return s.curr
}

// Peek returns the next token without advancing.
func (s *TokenScanner) Peek() token.Token {
	if s.pos >= len(s.tokens) {
		return s.eof
	}
	return s.tokens[s.pos]
}

// Unscan moves back one token so the next Scan returns it again. Current is
// left unchanged. After EOF was scanned, Unscan only re-arms EOF.
func (s *TokenScanner) Unscan() {
	if s.ateof {
		s.ateof = false
		return
	}
	if s.pos > 0 {
		s.pos--
	}
}

// Collect runs fn and returns the tokens it consumed, in order. A token that
// was unscanned and scanned again appears once; a token left unscanned when
// fn returns is not included.
func (s *TokenScanner) Collect(fn func()) []token.Token {
	start := s.pos
	fn()
	if s.pos <= start {
		return s.tokens[start:start:start]
	}
	return s.tokens[start:s.pos:s.pos]
}
