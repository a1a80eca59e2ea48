package token

// Kind identifies the type of a token.
type Kind int

const (
	KindIllegal Kind = iota
	KindEOF

	KindIdent
	KindFunction
	KindAtKeyword
	KindHash
	KindString
	KindBadString
	KindURL
	KindBadURL
	KindDelim
	KindNumber
	KindPercentage
	KindDimension
	KindUnicodeRange
	KindIncludeMatch
	KindDashMatch
	KindPrefixMatch
	KindSuffixMatch
	KindSubstringMatch
	KindColumn
	KindWhitespace
	KindComment
	KindCDO
	KindCDC
	KindColon
	KindSemicolon
	KindComma
	KindLBrack
	KindRBrack
	KindLParen
	KindRParen
	KindLBrace
	KindRBrace
)

var kinds = [...]string{
	KindIllegal: "illegal",
	KindEOF:     "eof",

	KindIdent:          "ident",
	KindFunction:       "function",
	KindAtKeyword:      "at_keyword",
	KindHash:           "hash",
	KindString:         "string",
	KindBadString:      "bad_string",
	KindURL:            "url",
	KindBadURL:         "bad_url",
	KindDelim:          "delim",
	KindNumber:         "number",
	KindPercentage:     "percentage",
	KindDimension:      "dimension",
	KindUnicodeRange:   "unicode_range",
	KindIncludeMatch:   "include_match",
	KindDashMatch:      "dash_match",
	KindPrefixMatch:    "prefix_match",
	KindSuffixMatch:    "suffix_match",
	KindSubstringMatch: "substring_match",
	KindColumn:         "column",
	KindWhitespace:     "whitespace",
	KindComment:        "comment",
	KindCDO:            "cdo",
	KindCDC:            "cdc",
	KindColon:          "colon",
	KindSemicolon:      "semicolon",
	KindComma:          "comma",
	KindLBrack:         "[",
	KindRBrack:         "]",
	KindLParen:         "(",
	KindRParen:         ")",
	KindLBrace:         "{",
	KindRBrace:         "}",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= 0 && k < Kind(len(kinds)) {
		return kinds[k]
	}
	return ""
}

// Type flags carried by hash and numeric tokens.
const (
	TypeID           = "id"
	TypeUnrestricted = "unrestricted"
	TypeInteger      = "integer"
	TypeNumber       = "number"
)

// Token represents a lexical token.
//
// Every token remembers the codepoint offset it started at and the exact
// preprocessed text it was produced from, so that the source can be
// reconstructed by concatenating Raw() across a token list.
type Token interface {
	Kind() Kind
	Pos() int
	Raw() string
	token()
}

// Loc records where a token came from.
type Loc struct {
	Offset int    // codepoint offset of the first character
	Text   string // source text, after preprocessing
}

// Pos returns the codepoint offset of the token.
func (l Loc) Pos() int { return l.Offset }

// Raw returns the source text of the token.
func (l Loc) Raw() string { return l.Text }

// At returns a Loc for text starting at offset.
func At(offset int, text string) Loc { return Loc{Offset: offset, Text: text} }

func (*Ident) token()          {}
func (*Function) token()       {}
func (*AtKeyword) token()      {}
func (*Hash) token()           {}
func (*String) token()         {}
func (*BadString) token()      {}
func (*URL) token()            {}
func (*BadURL) token()         {}
func (*Delim) token()          {}
func (*Number) token()         {}
func (*Percentage) token()     {}
func (*Dimension) token()      {}
func (*UnicodeRange) token()   {}
func (*IncludeMatch) token()   {}
func (*DashMatch) token()      {}
func (*PrefixMatch) token()    {}
func (*SuffixMatch) token()    {}
func (*SubstringMatch) token() {}
func (*Column) token()         {}
func (*Whitespace) token()     {}
func (*Comment) token()        {}
func (*CDO) token()            {}
func (*CDC) token()            {}
func (*Colon) token()          {}
func (*Semicolon) token()      {}
func (*Comma) token()          {}
func (*LBrack) token()         {}
func (*RBrack) token()         {}
func (*LParen) token()         {}
func (*RParen) token()         {}
func (*LBrace) token()         {}
func (*RBrace) token()         {}
func (*EOF) token()            {}

func (*Ident) Kind() Kind          { return KindIdent }
func (*Function) Kind() Kind       { return KindFunction }
func (*AtKeyword) Kind() Kind      { return KindAtKeyword }
func (*Hash) Kind() Kind           { return KindHash }
func (*String) Kind() Kind         { return KindString }
func (*BadString) Kind() Kind      { return KindBadString }
func (*URL) Kind() Kind            { return KindURL }
func (*BadURL) Kind() Kind         { return KindBadURL }
func (*Delim) Kind() Kind          { return KindDelim }
func (*Number) Kind() Kind         { return KindNumber }
func (*Percentage) Kind() Kind     { return KindPercentage }
func (*Dimension) Kind() Kind      { return KindDimension }
func (*UnicodeRange) Kind() Kind   { return KindUnicodeRange }
func (*IncludeMatch) Kind() Kind   { return KindIncludeMatch }
func (*DashMatch) Kind() Kind      { return KindDashMatch }
func (*PrefixMatch) Kind() Kind    { return KindPrefixMatch }
func (*SuffixMatch) Kind() Kind    { return KindSuffixMatch }
func (*SubstringMatch) Kind() Kind { return KindSubstringMatch }
func (*Column) Kind() Kind         { return KindColumn }
func (*Whitespace) Kind() Kind     { return KindWhitespace }
func (*Comment) Kind() Kind        { return KindComment }
func (*CDO) Kind() Kind            { return KindCDO }
func (*CDC) Kind() Kind            { return KindCDC }
func (*Colon) Kind() Kind          { return KindColon }
func (*Semicolon) Kind() Kind      { return KindSemicolon }
func (*Comma) Kind() Kind          { return KindComma }
func (*LBrack) Kind() Kind         { return KindLBrack }
func (*RBrack) Kind() Kind         { return KindRBrack }
func (*LParen) Kind() Kind         { return KindLParen }
func (*RParen) Kind() Kind         { return KindRParen }
func (*LBrace) Kind() Kind         { return KindLBrace }
func (*RBrace) Kind() Kind         { return KindRBrace }
func (*EOF) Kind() Kind            { return KindEOF }

type Ident struct {
	Loc
	Value string
}

// Function is a name immediately followed by "(".
type Function struct {
	Loc
	Value string
}

type AtKeyword struct {
	Loc
	Value string
}

type Hash struct {
	Loc
	Type  string // TypeID or TypeUnrestricted
	Value string
}

type String struct {
	Loc
	Ending rune
	Value  string
}

// BadString is a string interrupted by an unescaped newline.
// It always represents a parse error.
type BadString struct {
	Loc
	Value string
}

type URL struct {
	Loc
	Value string
}

// BadURL is a url( token that could not be parsed. Error is set when the
// url contained an invalid code point or escape.
type BadURL struct {
	Loc
	Value string
	Error bool
}

// Delim is a single code point that didn't start any other token.
// Error is set for a stray backslash.
type Delim struct {
	Loc
	Value string
	Error bool
}

type Number struct {
	Loc
	Type  string // TypeInteger or TypeNumber
	Value float64
	Repr  string
}

type Percentage struct {
	Loc
	Type  string
	Value float64
	Repr  string
}

type Dimension struct {
	Loc
	Type  string
	Value float64
	Repr  string
	Unit  string
}

type UnicodeRange struct {
	Loc
	Start int
	End   int
}

type IncludeMatch struct{ Loc }
type DashMatch struct{ Loc }
type PrefixMatch struct{ Loc }
type SuffixMatch struct{ Loc }
type SubstringMatch struct{ Loc }
type Column struct{ Loc }
type Whitespace struct{ Loc }

// Comment holds the text between "/*" and "*/".
type Comment struct {
	Loc
	Value string
}

type CDO struct{ Loc }
type CDC struct{ Loc }
type Colon struct{ Loc }
type Semicolon struct{ Loc }
type Comma struct{ Loc }
type LBrack struct{ Loc }
type RBrack struct{ Loc }
type LParen struct{ Loc }
type RParen struct{ Loc }
type LBrace struct{ Loc }
type RBrace struct{ Loc }

// EOF marks the end of input. It has no source text.
type EOF struct{ Loc }

// HasError returns true if tok was flagged as a parse error by the tokenizer.
func HasError(tok Token) bool {
	switch tok := tok.(type) {
	case *BadString:
		return true
	case *BadURL:
		return tok.Error
	case *Delim:
		return tok.Error
	}
	return false
}

// Value returns the decoded string value of an ident, function, at-keyword,
// hash, string, url or delim token. Other tokens return their raw text.
func Value(tok Token) string {
	switch tok := tok.(type) {
	case *Ident:
		return tok.Value
	case *Function:
		return tok.Value
	case *AtKeyword:
		return tok.Value
	case *Hash:
		return tok.Value
	case *String:
		return tok.Value
	case *BadString:
		return tok.Value
	case *URL:
		return tok.Value
	case *BadURL:
		return tok.Value
	case *Delim:
		return tok.Value
	case *Comment:
		return tok.Value
	}
	return tok.Raw()
}
