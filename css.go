package css

import (
	"fmt"
	"io"

	"github.com/cssyntax/css/ast"
	"github.com/cssyntax/css/parser"
	"github.com/cssyntax/css/scanner"
	"github.com/cssyntax/css/token"
	"github.com/cssyntax/css/tokenizer"
)

// Options configures tokenizing and parsing.
type Options struct {
	// PreserveComments keeps comments as nodes in the tree.
	PreserveComments bool

	// PreserveHacks accepts the IE "*property" hack.
	PreserveHacks bool

	// Encoding is the fallback encoding label for byte input without a BOM
	// or @charset rule. Defaults to UTF-8.
	Encoding string

	// MaxDepth bounds block and function nesting.
	// Defaults to parser.DefaultMaxDepth.
	MaxDepth int
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{
		Options: tokenizer.Options{
			PreserveComments: o.PreserveComments,
			PreserveHacks:    o.PreserveHacks,
		},
		MaxDepth: o.MaxDepth,
	}
}

// Parse parses a stylesheet. Qualified rules are returned as style rules.
func Parse(input string, opts Options) []ast.Node {
	return parser.ParseStylesheet(input, opts.parserOptions())
}

// ParseRules parses a list of rules, such as the block of an at-rule.
func ParseRules(input string, opts Options) []ast.Node {
	return parser.ParseRules(input, opts.parserOptions())
}

// ParseProperties parses a list of declarations, such as the value of an
// HTML style attribute.
func ParseProperties(input string, opts Options) []ast.Node {
	return parser.ParseProperties(input, opts.parserOptions())
}

// Tokenize returns the tokens of input.
func Tokenize(input string, opts Options) []token.Token {
	return tokenizer.Tokenize(input, opts.parserOptions().Options)
}

// ParseReader reads and decodes a stylesheet from r, then parses it.
// The encoding is taken from a BOM, then a @charset rule, then
// opts.Encoding. Only read and decoding failures are returned as errors.
func ParseReader(r io.Reader, opts Options) ([]ast.Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	input, err := scanner.Decode(b, opts.Encoding)
	if err != nil {
		return nil, err
	}
	return Parse(input, opts), nil
}
