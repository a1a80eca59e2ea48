package css

import (
	"io"
	"strings"

	"github.com/cssyntax/css/ast"
	"github.com/cssyntax/css/token"
)

// Printer represents a configurable CSS printer.
//
// Nodes are printed from the source text they were parsed from, so a tree
// parsed with comments and hacks preserved prints back as its input.
type Printer struct {
	// ExcludeComments omits comments from the output.
	ExcludeComments bool

	// Indent is written before each property.
	Indent string
}

// Print writes nodes to w.
func (p *Printer) Print(w io.Writer, nodes ...ast.Node) error {
	for _, n := range nodes {
		if err := p.print(w, n); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) print(w io.Writer, n ast.Node) (err error) {
	switch n := n.(type) {
	case *ast.StyleRule:
		if n == nil {
			return nil
		}
		if n.Selector != nil {
			if err = p.printTokens(w, n.Selector.Tokens); err != nil {
				return err
			}
		}
		if _, err = io.WriteString(w, "{"); err != nil {
			return err
		}
		if err = p.Print(w, n.Children...); err != nil {
			return err
		}

		// An unclosed block stays unclosed.
		if n.Block == nil || n.Block.Closed {
			_, err = io.WriteString(w, "}")
		}

	case *ast.Property:
		if n == nil {
			return nil
		}
		if _, err = io.WriteString(w, p.Indent); err != nil {
			return err
		}
		err = p.printTokens(w, n.Tokens)

	default:
		err = p.printTokens(w, ast.Tokens(n))
	}

	return
}

func (p *Printer) printTokens(w io.Writer, tokens []token.Token) error {
	for _, tok := range tokens {
		if _, ok := tok.(*token.Comment); ok && p.ExcludeComments {
			continue
		}
		if _, err := io.WriteString(w, tok.Raw()); err != nil {
			return err
		}
	}
	return nil
}

// Stringify prints nodes to a string. A nil printer uses the default
// configuration.
func Stringify(nodes []ast.Node, p *Printer) string {
	if p == nil {
		p = &Printer{}
	}
	var buf strings.Builder
	_ = p.Print(&buf, nodes...)
	return buf.String()
}
