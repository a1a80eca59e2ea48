package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cssyntax/css/ast"
	"github.com/cssyntax/css/token"
	"github.com/cssyntax/css/tokenizer"
)

// DefaultMaxDepth is the block and function nesting limit used when
// Options.MaxDepth is zero.
const DefaultMaxDepth = 512

// Options configures parsing.
type Options struct {
	tokenizer.Options

	// MaxDepth bounds the nesting of blocks and functions. An opening token
	// past the limit is kept as a plain token and reported as an error.
	// Tokens past the limit are all kept, but the tree shape there is
	// approximate: the plain opener's closer ends the enclosing block.
	MaxDepth int
}

// Parser represents a CSS3 parser.
//
// Parsing never fails. Invalid rules and declarations are dropped from the
// result and reported in Errors along with any tokenization errors.
type Parser struct {
	// Errors contains a list of all errors that occur during parsing.
	Errors ErrorList

	s        *TokenScanner
	maxDepth int
	depth    int
}

// New returns a parser for the given CSS source.
func New(input string, opts Options) *Parser {
	t := tokenizer.New(input, opts.Options)
	p := NewTokens(t.Tokenize(), opts)
	for _, err := range t.Errors {
		p.Errors = append(p.Errors, err)
	}
	return p
}

// NewTokens returns a parser for a list of previously scanned tokens, such
// as the contents of a block.
func NewTokens(tokens []token.Token, opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{s: NewTokenScanner(tokens), maxDepth: maxDepth}
}

// ParseStylesheet parses a stylesheet into a list of rules.
func ParseStylesheet(input string, opts Options) []ast.Node {
	return New(input, opts).ParseStylesheet()
}

// ParseRules parses a list of rules that is not a whole stylesheet.
func ParseRules(input string, opts Options) []ast.Node {
	return New(input, opts).ParseRules()
}

// ParseRulesTokens parses a list of rules from tokens. It is typically used
// on an at-rule's block: ParseRulesTokens(rule.Block.Contents(), opts).
func ParseRulesTokens(tokens []token.Token, opts Options) []ast.Node {
	return NewTokens(tokens, opts).ParseRules()
}

// ParseProperties parses a list of declarations, such as the contents of
// a style attribute, into properties.
func ParseProperties(input string, opts Options) []ast.Node {
	return New(input, opts).ParseProperties()
}

// ParsePropertiesTokens parses a list of declarations from tokens.
func ParsePropertiesTokens(tokens []token.Token, opts Options) []ast.Node {
	return NewTokens(tokens, opts).ParseProperties()
}

// ParseStylesheet consumes the top-level list of rules and converts each
// qualified rule into a style rule. CDO and CDC tokens are ignored.
func (p *Parser) ParseStylesheet() []ast.Node {
	return p.createStyleRules(p.ConsumeRules(p.s, true))
}

// ParseRules is like ParseStylesheet except that CDO and CDC tokens start
// a qualified rule.
func (p *Parser) ParseRules() []ast.Node {
	return p.createStyleRules(p.ConsumeRules(p.s, false))
}

// ParseProperties consumes a list of declarations and converts each
// declaration into a property.
func (p *Parser) ParseProperties() []ast.Node {
	return p.createProperties(p.ConsumeDeclarations(p.s))
}

// Err returns the parser's errors, or nil if there are none.
func (p *Parser) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return p.Errors
}

// ConsumeRules consumes a list of rules from a token stream.
// Whitespace and comments are kept as token nodes.
func (p *Parser) ConsumeRules(s *TokenScanner, toplevel bool) []ast.Node {
	var a []ast.Node
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Whitespace, *token.Comment:
			a = append(a, &ast.Token{Token: tok})
		case *token.EOF:
			return a
		case *token.CDO, *token.CDC:
			if !toplevel {
				s.Unscan()
				if r := p.ConsumeQualifiedRule(s); r != nil {
					a = append(a, r)
				}
			}
		case *token.AtKeyword:
			s.Unscan()
			a = append(a, p.ConsumeAtRule(s))
		default:
			s.Unscan()
			if r := p.ConsumeQualifiedRule(s); r != nil {
				a = append(a, r)
			}
		}
	}
}

// ConsumeAtRule consumes a single at-rule. The next token must be the rule's
// at-keyword. The rule ends at a semicolon, a {} block or EOF.
func (p *Parser) ConsumeAtRule(s *TokenScanner) *ast.AtRule {
	r := &ast.AtRule{}
	r.Tokens = s.Collect(func() {
		r.Name = token.Value(s.Scan())

		for {
			tok := s.Scan()
			switch tok.(type) {
			case *token.Comment:
				// nop
			case *token.Semicolon, *token.EOF:
				return
			case *token.LBrace:
				r.Block = p.ConsumeSimpleBlock(s)
				return
			default:
				s.Unscan()
				r.Prelude = append(r.Prelude, p.ConsumeComponentValue(s))
			}
		}
	})
	return r
}

// ConsumeQualifiedRule consumes a prelude and {} block.
// Returns nil if EOF is reached before the block.
func (p *Parser) ConsumeQualifiedRule(s *TokenScanner) *ast.QualifiedRule {
	r := &ast.QualifiedRule{}
	r.Tokens = s.Collect(func() {
		for {
			tok := s.Scan()
			switch tok.(type) {
			case *token.EOF:
				p.errorf(tok.Pos(), "unexpected EOF")
				return
			case *token.LBrace:
				r.Block = p.ConsumeSimpleBlock(s)
				return
			default:
				s.Unscan()
				r.Prelude = append(r.Prelude, p.ConsumeComponentValue(s))
			}
		}
	})
	if r.Block == nil {
		return nil
	}
	return r
}

// ConsumeDeclarations consumes a list of declarations.
//
// Whitespace, comments and semicolons are kept as token nodes and at-rules
// are allowed. Anything that does not start a declaration is skipped through
// the next semicolon.
func (p *Parser) ConsumeDeclarations(s *TokenScanner) []ast.Node {
	var a []ast.Node
	for {
		tok := s.Scan()
		switch tok := tok.(type) {
		case *token.Whitespace, *token.Comment, *token.Semicolon:
			a = append(a, &ast.Token{Token: tok})
		case *token.EOF:
			return a
		case *token.AtKeyword:
			s.Unscan()
			a = append(a, p.ConsumeAtRule(s))
		case *token.Ident:
			// The declaration runs through the next semicolon that is not
			// nested in a block or function.
			s.Unscan()
			tokens := s.Collect(func() { p.consumeDeclarationValues(s) })

			if d := p.ConsumeDeclaration(NewTokenScanner(tokens)); d != nil {
				a = append(a, d)
			}
		default:
			p.errorf(tok.Pos(), "unexpected %s", describe(tok))
			s.Unscan()
			p.skipComponentValues(s)
		}
	}
}

// ConsumeDeclaration consumes a name, colon and value.
// Returns nil if the name is not followed by a colon.
func (p *Parser) ConsumeDeclaration(s *TokenScanner) *ast.Declaration {
	d := &ast.Declaration{}
	valid := false
	d.Tokens = s.Collect(func() {
		ident, ok := s.Scan().(*token.Ident)
		if !ok {
			p.errorf(s.Current().Pos(), "expected ident, got %s", describe(s.Current()))
			return
		}
		d.Name = ident.Value

		p.skipWhitespace(s)
		if _, ok := s.Scan().(*token.Colon); !ok {
			p.errorf(s.Current().Pos(), "expected colon, got %s", describe(s.Current()))
			return
		}
		valid = true

		for {
			tok := s.Scan()
			if _, ok := tok.(*token.EOF); ok {
				return
			}
			d.Value = append(d.Value, &ast.Token{Token: tok})
		}
	})
	if !valid {
		return nil
	}

	d.Value, d.Important = cleanImportantFlag(d.Value)
	return d
}

// cleanImportantFlag checks if the last two tokens, ignoring whitespace,
// comments and semicolons, are a case-insensitive "!important".
// If so, it removes them and returns the "important" flag set to true.
func cleanImportantFlag(values []ast.Node) ([]ast.Node, bool) {
	i := prevSignificant(values, len(values)-1)
	if i < 0 {
		return values, false
	} else if ident, ok := values[i].(*ast.Token).Token.(*token.Ident); !ok || !strings.EqualFold(ident.Value, "important") {
		return values, false
	}

	j := prevSignificant(values, i-1)
	if j < 0 {
		return values, false
	} else if delim, ok := values[j].(*ast.Token).Token.(*token.Delim); !ok || delim.Value != "!" {
		return values, false
	}

	a := make([]ast.Node, 0, len(values)-2)
	a = append(a, values[:j]...)
	a = append(a, values[j+1:i]...)
	a = append(a, values[i+1:]...)
	return a, true
}

// prevSignificant returns the index of the last token at or before i that
// is not whitespace, a comment or a semicolon. Returns -1 if there is none.
func prevSignificant(values []ast.Node, i int) int {
	for ; i >= 0; i-- {
		switch values[i].(*ast.Token).Token.(type) {
		case *token.Whitespace, *token.Comment, *token.Semicolon:
			// nop
		default:
			return i
		}
	}
	return -1
}

// ConsumeComponentValue consumes a single component value: a block, a
// function or a plain token.
func (p *Parser) ConsumeComponentValue(s *TokenScanner) ast.Node {
	tok := s.Scan()
	switch tok.(type) {
	case *token.LBrace, *token.LBrack, *token.LParen:
		if !p.enter(tok) {
			return &ast.Token{Token: tok}
		}
		return p.ConsumeSimpleBlock(s)
	case *token.Function:
		if !p.enter(tok) {
			return &ast.Token{Token: tok}
		}
		return p.ConsumeFunction(s)
	default:
		return &ast.Token{Token: tok}
	}
}

// blockEnd maps each block's opening token to its closing token.
var blockEnd = map[token.Kind]token.Kind{
	token.KindLBrace: token.KindRBrace,
	token.KindLBrack: token.KindRBrack,
	token.KindLParen: token.KindRParen,
}

// ConsumeSimpleBlock consumes a simple block. The current token must be the
// block's opening token. An unclosed block ends at EOF.
func (p *Parser) ConsumeSimpleBlock(s *TokenScanner) *ast.SimpleBlock {
	start := s.Current().Kind()
	end := blockEnd[start]
	b := &ast.SimpleBlock{Start: start.String(), End: end.String()}

	p.depth++
	defer func() { p.depth-- }()

	s.Unscan()
	b.Tokens = s.Collect(func() {
		s.Scan()
		for {
			tok := s.Scan()
			switch tok.Kind() {
			case token.KindEOF:
				return
			case end:
				b.Closed = true
				return
			}

			// Otherwise consume a component value.
			s.Unscan()
			b.Value = append(b.Value, p.ConsumeComponentValue(s))
		}
	})
	return b
}

// ConsumeFunction consumes a function's arguments through the closing
// parenthesis or EOF. The current token must be the function token.
func (p *Parser) ConsumeFunction(s *TokenScanner) *ast.Function {
	f := &ast.Function{Name: token.Value(s.Current())}

	p.depth++
	defer func() { p.depth-- }()

	s.Unscan()
	f.Tokens = s.Collect(func() {
		s.Scan()
		for {
			tok := s.Scan()
			switch tok.(type) {
			case *token.EOF, *token.RParen:
				return
			case *token.Comment:
				continue
			}

			s.Unscan()
			f.Value = append(f.Value, p.ConsumeComponentValue(s))
		}
	})
	return f
}

// CreateStyleRule converts a qualified rule into a style rule. The prelude
// becomes the selector and the block contents are parsed as properties.
func (p *Parser) CreateStyleRule(r *ast.QualifiedRule) *ast.StyleRule {
	prelude := r.PreludeTokens()
	rule := &ast.StyleRule{
		Selector: &ast.Selector{Value: ast.TokensValue(prelude), Tokens: prelude},
		Block:    r.Block,
		Tokens:   r.Tokens,
	}
	if r.Block != nil {
		rule.Children = p.createProperties(p.ConsumeDeclarations(NewTokenScanner(r.Block.Contents())))
	}
	return rule
}

// createStyleRules converts every qualified rule in a list of rules.
func (p *Parser) createStyleRules(rules []ast.Node) []ast.Node {
	for i, n := range rules {
		if r, ok := n.(*ast.QualifiedRule); ok {
			rules[i] = p.CreateStyleRule(r)
		}
	}
	return rules
}

// createProperties converts every declaration in a list of declarations.
func (p *Parser) createProperties(decls []ast.Node) []ast.Node {
	for i, n := range decls {
		d, ok := n.(*ast.Declaration)
		if !ok {
			continue
		}

		children := d.Value
		if k := len(children); k > 0 {
			if tok := children[k-1].(*ast.Token); tok.Kind() == token.KindSemicolon {
				children = children[: k-1 : k-1]
			}
		}

		decls[i] = &ast.Property{
			Name:      d.Name,
			Value:     ast.Value(d.Value),
			Children:  children,
			Important: d.Important,
			Tokens:    d.Tokens,
		}
	}
	return decls
}

// consumeDeclarationValues consumes component values through the next
// semicolon or up to EOF.
func (p *Parser) consumeDeclarationValues(s *TokenScanner) {
	for {
		switch s.Scan().(type) {
		case *token.Semicolon:
			return
		case *token.EOF:
			s.Unscan()
			return
		}
		s.Unscan()
		p.ConsumeComponentValue(s)
	}
}

// skipComponentValues consumes all component values through the next
// semicolon or up to EOF.
func (p *Parser) skipComponentValues(s *TokenScanner) {
	for {
		v := p.ConsumeComponentValue(s)
		if tok, ok := v.(*ast.Token); ok {
			switch tok.Token.(type) {
			case *token.Semicolon:
				return
			case *token.EOF:
				s.Unscan()
				return
			}
		}
	}
}

// skipWhitespace skips over all contiguous whitespace tokens.
func (p *Parser) skipWhitespace(s *TokenScanner) {
	for {
		if _, ok := s.Scan().(*token.Whitespace); !ok {
			s.Unscan()
			return
		}
	}
}

// enter reports whether a block or function opened by tok may be nested at
// the current depth.
func (p *Parser) enter(tok token.Token) bool {
	if p.depth < p.maxDepth {
		return true
	}
	p.errorf(tok.Pos(), "nesting too deep")
	return false
}

func (p *Parser) errorf(pos int, format string, args ...interface{}) {
	p.Errors = append(p.Errors, &Error{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// describe returns a short description of a token for error messages.
func describe(tok token.Token) string {
	if _, ok := tok.(*token.EOF); ok {
		return "EOF"
	}
	return strconv.Quote(tok.Raw())
}

// Error represents a syntax error.
type Error struct {
	Message string
	Pos     int
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Pos)
}

// ErrorList represents a list of syntax errors.
type ErrorList []error

// Error returns the formatted string error message.
func (a ErrorList) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}
