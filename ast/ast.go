package ast

import (
	"strings"

	"github.com/cssyntax/css/token"
)

// Node represents a node in the CSS parse tree.
type Node interface {
	node()
}

func (*Token) node()         {}
func (*AtRule) node()        {}
func (*QualifiedRule) node() {}
func (*StyleRule) node()     {}
func (*SimpleBlock) node()   {}
func (*Function) node()      {}
func (*Declaration) node()   {}
func (*Property) node()      {}
func (*Selector) node()      {}

// Token wraps a single token used as a node. Comments, whitespace and
// semicolons found between rules and declarations are Token nodes, as is
// every plain component value.
type Token struct {
	token.Token
}

// AtRule represents a rule starting with an "@" keyword.
// Block is nil when the rule was terminated by a semicolon or EOF.
type AtRule struct {
	Name    string
	Prelude []Node
	Block   *SimpleBlock
	Tokens  []token.Token
}

// QualifiedRule represents an unnamed rule that includes a prelude and block.
type QualifiedRule struct {
	Prelude []Node
	Block   *SimpleBlock
	Tokens  []token.Token
}

// PreludeTokens returns the tokens preceding the rule's block.
func (r *QualifiedRule) PreludeTokens() []token.Token {
	n := len(r.Tokens)
	if r.Block != nil {
		n -= len(r.Block.Tokens)
	}
	if n < 0 {
		n = 0
	}
	return r.Tokens[:n:n]
}

// StyleRule is a qualified rule whose block has been parsed as a list of
// declarations.
type StyleRule struct {
	Selector *Selector
	Children []Node
	Block    *SimpleBlock
	Tokens   []token.Token
}

// SimpleBlock represents a {}, [] or () block.
//
// Tokens always starts with the opening token and ends with the closing
// token when Closed is true. An unclosed block runs to the end of input.
type SimpleBlock struct {
	Start  string
	End    string
	Closed bool
	Value  []Node
	Tokens []token.Token
}

// Contents returns the tokens between the block's brackets.
func (b *SimpleBlock) Contents() []token.Token {
	if len(b.Tokens) == 0 {
		return nil
	}
	end := len(b.Tokens)
	if b.Closed {
		end--
	}
	return b.Tokens[1:end:end]
}

// Function represents a function token and its arguments.
// Comments are excluded from Value but kept in Tokens.
type Function struct {
	Name   string
	Value  []Node
	Tokens []token.Token
}

// Declaration represents a name/value pair from a declaration list.
//
// Value holds the tokens after the colon, including a terminating semicolon.
// The "!" and "important" tokens of an !important flag are removed from it.
type Declaration struct {
	Name      string
	Value     []Node
	Important bool
	Tokens    []token.Token
}

// Property is a declaration inside a style rule or a style attribute.
type Property struct {
	Name      string
	Value     string
	Children  []Node
	Important bool
	Tokens    []token.Token
}

// Selector is the prelude of a style rule. Value is its flattened text.
type Selector struct {
	Value  string
	Tokens []token.Token
}

// Tokens returns the source tokens a node was built from.
// Returns nil for a nil node.
func Tokens(n Node) []token.Token {
	switch n := n.(type) {
	case *Token:
		if n != nil && n.Token != nil {
			return []token.Token{n.Token}
		}
	case *AtRule:
		if n != nil {
			return n.Tokens
		}
	case *QualifiedRule:
		if n != nil {
			return n.Tokens
		}
	case *StyleRule:
		if n != nil {
			return n.Tokens
		}
	case *SimpleBlock:
		if n != nil {
			return n.Tokens
		}
	case *Function:
		if n != nil {
			return n.Tokens
		}
	case *Declaration:
		if n != nil {
			return n.Tokens
		}
	case *Property:
		if n != nil {
			return n.Tokens
		}
	case *Selector:
		if n != nil {
			return n.Tokens
		}
	}
	return nil
}

// Flatten concatenates the token spans of a list of nodes.
func Flatten(nodes []Node) []token.Token {
	var a []token.Token
	for _, n := range nodes {
		a = append(a, Tokens(n)...)
	}
	return a
}

// Pos returns the offset of the first token of a node, or -1 if the node
// has no tokens.
func Pos(n Node) int {
	if tokens := Tokens(n); len(tokens) > 0 {
		return tokens[0].Pos()
	}
	return -1
}

// Raw returns the concatenated source text of a node.
func Raw(n Node) string {
	var buf strings.Builder
	for _, tok := range Tokens(n) {
		buf.WriteString(tok.Raw())
	}
	return buf.String()
}

// Value flattens nodes into a plain string: identifiers and at-keywords
// contribute their decoded value, function tokens their name and "(",
// functions and blocks their tokens, and everything else its source text.
// Comments and semicolons are skipped. The result is trimmed of whitespace.
func Value(nodes []Node) string {
	var buf strings.Builder
	writeValue(&buf, nodes)
	return strings.TrimSpace(buf.String())
}

// TokensValue is like Value for a list of tokens.
func TokensValue(tokens []token.Token) string {
	var buf strings.Builder
	writeTokens(&buf, tokens)
	return strings.TrimSpace(buf.String())
}

func writeValue(buf *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		writeTokens(buf, Tokens(n))
	}
}

func writeTokens(buf *strings.Builder, tokens []token.Token) {
	for _, tok := range tokens {
		switch tok := tok.(type) {
		case *token.Comment, *token.Semicolon:
			// nop
		case *token.Ident:
			buf.WriteString(tok.Value)
		case *token.AtKeyword:
			buf.WriteString(tok.Value)
		case *token.Function:
			buf.WriteString(tok.Value)
			buf.WriteString("(")
		default:
			buf.WriteString(tok.Raw())
		}
	}
}
