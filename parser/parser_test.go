package parser_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cssyntax/css/ast"
	"github.com/cssyntax/css/parser"
	"github.com/cssyntax/css/token"
	"github.com/cssyntax/css/tokenizer"
)

var comments = parser.Options{Options: tokenizer.Options{PreserveComments: true}}

// raw returns the concatenated source text of tokens.
func raw(tokens []token.Token) string {
	var buf strings.Builder
	for _, tok := range tokens {
		buf.WriteString(tok.Raw())
	}
	return buf.String()
}

// assertSpan checks the text and starting offset of a token span.
func assertSpan(t *testing.T, text string, pos int, tokens []token.Token) {
	t.Helper()
	assert.Equal(t, text, raw(tokens))
	if assert.NotEmpty(t, tokens) {
		assert.Equal(t, pos, tokens[0].Pos())
	}
}

// assertNodes checks the text and starting offset of a list of nodes.
func assertNodes(t *testing.T, text string, pos int, nodes []ast.Node) {
	t.Helper()
	assertSpan(t, text, pos, ast.Flatten(nodes))
}

// Ensure that the token scanner moves over a fixed list of tokens.
func TestTokenScanner(t *testing.T) {
	s := parser.NewTokenScanner(tokenizer.Tokenize("a b", tokenizer.Options{}))
	assert.Equal(t, token.KindEOF, s.Current().Kind())
	assert.Equal(t, "a", s.Peek().Raw())

	assert.Equal(t, "a", s.Scan().Raw())
	assert.Equal(t, token.KindWhitespace, s.Scan().Kind())
	s.Unscan()
	assert.Equal(t, token.KindWhitespace, s.Current().Kind())
	assert.Equal(t, token.KindWhitespace, s.Scan().Kind())
	assert.Equal(t, "b", s.Scan().Raw())

	eof := s.Scan()
	assert.Equal(t, token.KindEOF, eof.Kind())
	assert.Equal(t, 3, eof.Pos())
	assert.Equal(t, token.KindEOF, s.Scan().Kind())

	// Unscanning EOF only re-arms it.
	s.Unscan()
	assert.Equal(t, token.KindEOF, s.Scan().Kind())
	s.Unscan()
	s.Unscan()
	assert.Equal(t, "b", s.Scan().Raw())
}

// Ensure that Collect returns exactly the tokens consumed by a function.
func TestTokenScanner_Collect(t *testing.T) {
	s := parser.NewTokenScanner(tokenizer.Tokenize("a b c", tokenizer.Options{}))
	s.Scan()

	span := s.Collect(func() {
		s.Scan()
		s.Scan()
		s.Unscan()
		s.Scan()
		s.Scan()
		s.Unscan()
	})
	assertSpan(t, " b", 1, span)
	assert.Equal(t, 2, cap(span))

	assert.Empty(t, s.Collect(func() {}))
	assert.Empty(t, parser.NewTokenScanner(nil).Collect(func() {}))
}

// Ensure that an empty input produces an empty tree.
func TestParse_Empty(t *testing.T) {
	assert.Empty(t, parser.ParseStylesheet("", parser.Options{}))
	assert.Empty(t, parser.ParseRules("", parser.Options{}))
	assert.Empty(t, parser.ParseProperties("", parser.Options{}))
}

// Ensure that separators between declarations are kept as token nodes.
func TestParseProperties_Separators(t *testing.T) {
	s := ";; /**/ ; ;"
	assertNodes(t, raw(tokenizer.Tokenize(s, tokenizer.Options{})), 0, parser.ParseProperties(s, parser.Options{}))
	assertNodes(t, s, 0, parser.ParseProperties(s, comments))
}

// Ensure that a list of declarations is parsed into properties.
func TestParseProperties(t *testing.T) {
	nodes := parser.ParseProperties("a:b; c:d 42!important;\n", parser.Options{})
	require.Len(t, nodes, 4)

	prop := nodes[0].(*ast.Property)
	assert.Equal(t, "a", prop.Name)
	assert.Equal(t, "b", prop.Value)
	assert.False(t, prop.Important)
	assertSpan(t, "a:b;", 0, prop.Tokens)
	assertNodes(t, "b", 2, prop.Children)

	assertNodes(t, " ", 4, nodes[1:2])

	prop = nodes[2].(*ast.Property)
	assert.Equal(t, "c", prop.Name)
	assert.Equal(t, "d 42", prop.Value)
	assert.True(t, prop.Important)
	assertSpan(t, "c:d 42!important;", 5, prop.Tokens)
	require.Len(t, prop.Children, 3)
	assertNodes(t, "d 42", 7, prop.Children)

	num := prop.Children[2].(*ast.Token).Token.(*token.Number)
	assert.Equal(t, token.TypeInteger, num.Type)
	assert.Equal(t, float64(42), num.Value)

	assertNodes(t, "\n", 22, nodes[3:])
}

// Ensure that at-rules are allowed in a declaration list.
func TestParseProperties_AtRule(t *testing.T) {
	nodes := parser.ParseProperties("@import 'foo.css'; a:b; @import 'bar.css'", parser.Options{})
	require.Len(t, nodes, 5)

	rule := nodes[0].(*ast.AtRule)
	assert.Equal(t, "import", rule.Name)
	assertNodes(t, " 'foo.css'", 7, rule.Prelude)
	assertSpan(t, "@import 'foo.css';", 0, rule.Tokens)
	assert.Nil(t, rule.Block)

	assertNodes(t, " ", 18, nodes[1:2])

	prop := nodes[2].(*ast.Property)
	assert.Equal(t, "a", prop.Name)
	assert.Equal(t, "b", prop.Value)
	assertSpan(t, "a:b;", 19, prop.Tokens)
	assertNodes(t, "b", 21, prop.Children)

	assertNodes(t, " ", 23, nodes[3:4])

	rule = nodes[4].(*ast.AtRule)
	assert.Equal(t, "import", rule.Name)
	assertNodes(t, " 'bar.css'", 31, rule.Prelude)
	assertSpan(t, "@import 'bar.css'", 24, rule.Tokens)
}

// Ensure that extra semicolons and unclosed blocks are tolerated.
func TestParseProperties_UnclosedBlocks(t *testing.T) {
	nodes := parser.ParseProperties("@media screen { div{;}} a:b;; @media print{div{", parser.Options{})
	require.Len(t, nodes, 6)

	rule := nodes[0].(*ast.AtRule)
	assert.Equal(t, "media", rule.Name)
	assertNodes(t, " screen ", 6, rule.Prelude)
	assertSpan(t, "@media screen { div{;}}", 0, rule.Tokens)

	block := rule.Block
	assert.Equal(t, "{", block.Start)
	assert.Equal(t, "}", block.End)
	assert.True(t, block.Closed)
	assertSpan(t, "{ div{;}}", 14, block.Tokens)
	assertSpan(t, " div{;}", 15, block.Contents())
	require.Len(t, block.Value, 3)
	assertNodes(t, " div", 15, block.Value[0:2])

	block = block.Value[2].(*ast.SimpleBlock)
	assert.Equal(t, "{", block.Start)
	assertNodes(t, ";", 20, block.Value)
	assertSpan(t, "{;}", 19, block.Tokens)

	assertNodes(t, " ", 23, nodes[1:2])

	prop := nodes[2].(*ast.Property)
	assert.Equal(t, "a", prop.Name)
	assert.Equal(t, "b", prop.Value)
	assertSpan(t, "a:b;", 24, prop.Tokens)

	assertNodes(t, "; ", 28, nodes[3:5])

	rule = nodes[5].(*ast.AtRule)
	assert.Equal(t, "media", rule.Name)
	assertNodes(t, " print", 36, rule.Prelude)
	assertSpan(t, "@media print{div{", 30, rule.Tokens)

	block = rule.Block
	assert.False(t, block.Closed)
	assertSpan(t, "{div{", 42, block.Tokens)
	require.Len(t, block.Value, 2)
	assertNodes(t, "div", 43, block.Value[0:1])

	block = block.Value[1].(*ast.SimpleBlock)
	assert.Equal(t, "{", block.Start)
	assert.Equal(t, "}", block.End)
	assert.False(t, block.Closed)
	assert.Empty(t, block.Value)
	assert.Empty(t, block.Contents())
	assertSpan(t, "{", 46, block.Tokens)
}

// Ensure that invalid declarations are skipped through the next semicolon.
func TestParseProperties_Invalid(t *testing.T) {
	p := parser.New("@ media screen { div{;}} a:b;; @media print{div{", parser.Options{})
	nodes := p.ParseProperties()
	require.Len(t, nodes, 3)
	assertNodes(t, "; ", 29, nodes[0:2])

	rule := nodes[2].(*ast.AtRule)
	assert.Equal(t, "media", rule.Name)
	assertNodes(t, " print", 37, rule.Prelude)
	assertSpan(t, "@media print{div{", 31, rule.Tokens)
	assertSpan(t, "{div{", 43, rule.Block.Tokens)

	require.Len(t, p.Errors, 1)
	assert.EqualError(t, p.Errors[0], `unexpected "@" at offset 0`)
}

// Ensure that function values are flattened into the property value.
func TestParseProperties_Functions(t *testing.T) {
	var tests = []struct {
		s        string
		value    string
		children string
		n        int
	}{
		{s: `content: attr(data-foo) " ";`, value: `attr(data-foo) " "`, children: ` attr(data-foo) " "`, n: 6},
		{s: `width: expression(alert(1));`, value: `expression(alert(1))`, children: ` expression(alert(1))`, n: 6},
	}

	for i, tt := range tests {
		nodes := parser.ParseProperties(tt.s, parser.Options{})
		require.Len(t, nodes, 1, "%d. <%q>", i, tt.s)

		prop := nodes[0].(*ast.Property)
		assert.Equal(t, tt.value, prop.Value, "%d. <%q>", i, tt.s)
		assert.Len(t, prop.Children, tt.n, "%d. <%q>", i, tt.s)
		assert.Equal(t, tt.children, raw(ast.Flatten(prop.Children)), "%d. <%q>", i, tt.s)
		assert.Equal(t, tt.s, raw(prop.Tokens), "%d. <%q>", i, tt.s)
	}
}

// Ensure that a declaration without a value is still a property.
func TestParseProperties_NoValue(t *testing.T) {
	nodes := parser.ParseProperties("font-family:", parser.Options{})
	require.Len(t, nodes, 1)

	prop := nodes[0].(*ast.Property)
	assert.Equal(t, "font-family", prop.Name)
	assert.Equal(t, "", prop.Value)
	assert.Empty(t, prop.Children)
	assert.False(t, prop.Important)
	assertSpan(t, "font-family:", 0, prop.Tokens)
}

// Ensure that declaration fixtures produce the expected properties.
func TestParseProperties_Fixtures(t *testing.T) {
	b, err := os.ReadFile("testdata/properties.yaml")
	require.NoError(t, err)

	var fixtures []struct {
		CSS           string `yaml:"css"`
		PreserveHacks bool   `yaml:"preserve_hacks"`
		Properties    []struct {
			Name      string
			Value     string
			Important bool
		}
	}
	require.NoError(t, yaml.Unmarshal(b, &fixtures))
	require.NotEmpty(t, fixtures)

	for i, tt := range fixtures {
		opts := parser.Options{Options: tokenizer.Options{PreserveHacks: tt.PreserveHacks}}

		var props []*ast.Property
		for _, n := range parser.ParseProperties(tt.CSS, opts) {
			if prop, ok := n.(*ast.Property); ok {
				props = append(props, prop)
			}
		}

		if !assert.Len(t, props, len(tt.Properties), "%d. <%q>", i, tt.CSS) {
			continue
		}
		for j, exp := range tt.Properties {
			assert.Equal(t, exp.Name, props[j].Name, "%d.%d. <%q> name", i, j, tt.CSS)
			assert.Equal(t, exp.Value, props[j].Value, "%d.%d. <%q> value", i, j, tt.CSS)
			assert.Equal(t, exp.Important, props[j].Important, "%d.%d. <%q> important", i, j, tt.CSS)
		}
	}
}

// Ensure that stylesheets without rules produce an empty tree.
func TestParseStylesheet_NoRules(t *testing.T) {
	for i, s := range []string{``, `foo`, `foo 4`} {
		assert.Empty(t, parser.ParseStylesheet(s, parser.Options{}), "%d. <%q>", i, s)
	}
}

// Ensure that at-rules without a block end at a semicolon or EOF.
func TestParseStylesheet_AtRule(t *testing.T) {
	nodes := parser.ParseStylesheet("@foo", parser.Options{})
	require.Len(t, nodes, 1)
	rule := nodes[0].(*ast.AtRule)
	assert.Equal(t, "foo", rule.Name)
	assert.Empty(t, rule.Prelude)
	assert.Nil(t, rule.Block)
	assertSpan(t, "@foo", 0, rule.Tokens)

	nodes = parser.ParseStylesheet("@foo bar; \t/* comment */", parser.Options{})
	require.Len(t, nodes, 2)
	rule = nodes[0].(*ast.AtRule)
	assertNodes(t, " bar", 4, rule.Prelude)
	assertSpan(t, "@foo bar;", 0, rule.Tokens)
	assertNodes(t, " \t", 9, nodes[1:])

	nodes = parser.ParseStylesheet("@foo bar; \t/* comment */", comments)
	require.Len(t, nodes, 3)
	assertNodes(t, "/* comment */", 11, nodes[2:])
}

// Ensure that comments in an at-rule prelude are skipped but kept in its span.
func TestParseStylesheet_AtRule_Comments(t *testing.T) {
	nodes := parser.ParseStylesheet("@import /* x */ 'a.css';", comments)
	require.Len(t, nodes, 1)

	rule := nodes[0].(*ast.AtRule)
	assertNodes(t, "  'a.css'", 7, rule.Prelude)
	assertSpan(t, "@import /* x */ 'a.css';", 0, rule.Tokens)
}

// Ensure that an at-rule prelude may contain a simple block.
func TestParseStylesheet_AtRule_PreludeBlock(t *testing.T) {
	nodes := parser.ParseStylesheet("@foo [ bar", parser.Options{})
	require.Len(t, nodes, 1)

	rule := nodes[0].(*ast.AtRule)
	assertSpan(t, "@foo [ bar", 0, rule.Tokens)
	require.Len(t, rule.Prelude, 2)
	assertNodes(t, " ", 4, rule.Prelude[0:1])

	block := rule.Prelude[1].(*ast.SimpleBlock)
	assert.Equal(t, "[", block.Start)
	assert.Equal(t, "]", block.End)
	assert.False(t, block.Closed)
	assertSpan(t, "[ bar", 5, block.Tokens)
	assertNodes(t, " bar", 6, block.Value)
}

// Ensure that unclosed blocks nest until EOF.
func TestParseStylesheet_AtRule_Unclosed(t *testing.T) {
	for _, opts := range []parser.Options{{}, comments} {
		s := " /**/ @foo bar{[(4"
		nodes := parser.ParseStylesheet(s, opts)
		require.NotEmpty(t, nodes)
		rule := nodes[len(nodes)-1].(*ast.AtRule)
		assertNodes(t, raw(tokenizer.Tokenize(" /**/ ", opts.Options)), 0, nodes[:len(nodes)-1])

		assert.Equal(t, "foo", rule.Name)
		assertNodes(t, " bar", 10, rule.Prelude)
		assertSpan(t, "@foo bar{[(4", 6, rule.Tokens)

		block := rule.Block
		assertSpan(t, "{[(4", 14, block.Tokens)
		require.Len(t, block.Value, 1)

		block = block.Value[0].(*ast.SimpleBlock)
		assert.Equal(t, "[", block.Start)
		assertSpan(t, "[(4", 15, block.Tokens)
		require.Len(t, block.Value, 1)

		block = block.Value[0].(*ast.SimpleBlock)
		assert.Equal(t, "(", block.Start)
		assert.Equal(t, ")", block.End)
		assertSpan(t, "(4", 16, block.Tokens)
		assertNodes(t, "4", 17, block.Value)
	}
}

// Ensure that qualified rules become style rules.
func TestParseStylesheet_StyleRule(t *testing.T) {
	nodes := parser.ParseStylesheet(" /**/ div > p { color: #aaa;  } /**/ ", parser.Options{})
	require.Len(t, nodes, 5)
	assertNodes(t, "  ", 0, nodes[0:2])
	assertNodes(t, "  ", 31, nodes[3:5])

	rule := nodes[2].(*ast.StyleRule)
	assert.Equal(t, "div > p", rule.Selector.Value)
	assertSpan(t, "div > p ", 6, rule.Selector.Tokens)
	assertSpan(t, "div > p { color: #aaa;  }", 6, rule.Tokens)

	require.Len(t, rule.Children, 3)
	assertNodes(t, " ", 15, rule.Children[0:1])
	assertNodes(t, "  ", 28, rule.Children[2:3])

	prop := rule.Children[1].(*ast.Property)
	assert.Equal(t, "color", prop.Name)
	assert.Equal(t, "#aaa", prop.Value)
	assertSpan(t, "color: #aaa;", 16, prop.Tokens)

	// Comments become token nodes when preserved.
	nodes = parser.ParseStylesheet(" /**/ div > p { color: #aaa;  } /**/ ", comments)
	require.Len(t, nodes, 7)
	assertNodes(t, " /**/ ", 0, nodes[0:3])
	assertNodes(t, " /**/ ", 31, nodes[4:7])
	assert.Equal(t, "div > p", nodes[3].(*ast.StyleRule).Selector.Value)
}

// Ensure that an unclosed rule without a selector keeps its declarations.
func TestParseStylesheet_StyleRule_Unclosed(t *testing.T) {
	nodes := parser.ParseStylesheet(" /**/ { color: #aaa  ", parser.Options{})
	require.Len(t, nodes, 3)

	rule := nodes[2].(*ast.StyleRule)
	assert.Equal(t, "", rule.Selector.Value)
	assert.Empty(t, rule.Selector.Tokens)
	assert.False(t, rule.Block.Closed)

	require.Len(t, rule.Children, 2)
	assertNodes(t, " ", 7, rule.Children[0:1])

	prop := rule.Children[1].(*ast.Property)
	assert.Equal(t, "color", prop.Name)
	assert.Equal(t, "#aaa", prop.Value)
	assertSpan(t, "color: #aaa  ", 8, prop.Tokens)
}

// Ensure that CDO and CDC are ignored at the top level only.
func TestParse_CDO_CDC(t *testing.T) {
	nodes := parser.ParseStylesheet(" <!-- --> {", parser.Options{})
	require.Len(t, nodes, 4)
	for i, n := range nodes[:3] {
		assert.Equal(t, token.KindWhitespace, n.(*ast.Token).Kind(), "%d", i)
	}
	rule := nodes[3].(*ast.StyleRule)
	assert.Empty(t, rule.Children)
	assert.Equal(t, "", rule.Selector.Value)
	assert.Empty(t, rule.Selector.Tokens)

	nodes = parser.ParseRules(" <!-- --> {", parser.Options{})
	require.Len(t, nodes, 2)
	assertNodes(t, " ", 0, nodes[:1])
	rule = nodes[1].(*ast.StyleRule)
	assert.Equal(t, "<!-- -->", rule.Selector.Value)
	assertSpan(t, "<!-- --> ", 1, rule.Selector.Tokens)

	for _, fn := range []func(string, parser.Options) []ast.Node{parser.ParseStylesheet, parser.ParseRules} {
		nodes = fn("div {} -->", parser.Options{})
		require.Len(t, nodes, 2)
		rule = nodes[0].(*ast.StyleRule)
		assert.Empty(t, rule.Children)
		assert.Equal(t, "div", rule.Selector.Value)
		assertSpan(t, "div ", 0, rule.Selector.Tokens)
		assertNodes(t, " ", 6, nodes[1:])
	}
}

// Ensure that multiple style rules are parsed in order.
func TestParseStylesheet_MultipleRules(t *testing.T) {
	nodes := parser.ParseStylesheet("div { color: #aaa; } p{}", parser.Options{})
	require.Len(t, nodes, 3)

	rule := nodes[0].(*ast.StyleRule)
	assert.Equal(t, "div", rule.Selector.Value)
	assertSpan(t, "div ", 0, rule.Selector.Tokens)
	require.Len(t, rule.Children, 3)
	assertNodes(t, " ", 5, rule.Children[0:1])
	assertNodes(t, " ", 18, rule.Children[2:3])

	prop := rule.Children[1].(*ast.Property)
	assert.Equal(t, "color", prop.Name)
	assert.Equal(t, "#aaa", prop.Value)
	assertSpan(t, "color: #aaa;", 6, prop.Tokens)

	assertNodes(t, " ", 20, nodes[1:2])

	rule = nodes[2].(*ast.StyleRule)
	assert.Equal(t, "p", rule.Selector.Value)
	assertSpan(t, "p", 21, rule.Selector.Tokens)
	assert.Empty(t, rule.Children)
}

// Ensure that a qualified rule reaching EOF without a block is dropped.
func TestParseStylesheet_DropsBlocklessRule(t *testing.T) {
	p := parser.New("{}a", parser.Options{})
	nodes := p.ParseStylesheet()
	require.Len(t, nodes, 1)
	rule := nodes[0].(*ast.StyleRule)
	assert.Empty(t, rule.Children)
	assert.Empty(t, rule.Selector.Tokens)
	assert.EqualError(t, p.Err(), "unexpected EOF at offset 3")

	nodes = parser.ParseStylesheet("{}@a", parser.Options{})
	require.Len(t, nodes, 2)
	at := nodes[1].(*ast.AtRule)
	assert.Equal(t, "a", at.Name)
	assert.Empty(t, at.Prelude)
	assertSpan(t, "@a", 2, at.Tokens)
}

// Ensure that an at-rule's block can be parsed again as a list of rules.
func TestParseRulesTokens_AtRuleBlock(t *testing.T) {
	nodes := parser.ParseStylesheet("@media (max-width: 400px) {.foo{color:#fff;}}", parser.Options{})
	require.Len(t, nodes, 1)
	rule := nodes[0].(*ast.AtRule)
	assert.Equal(t, "media", rule.Name)
	assert.Equal(t, "(max-width: 400px)", ast.Value(rule.Prelude))

	nodes = parser.ParseRulesTokens(rule.Block.Contents(), parser.Options{})
	require.Len(t, nodes, 1)
	style := nodes[0].(*ast.StyleRule)
	assert.Equal(t, ".foo", style.Selector.Value)
	assertSpan(t, ".foo", 27, style.Selector.Tokens)
	require.Len(t, style.Children, 1)

	prop := style.Children[0].(*ast.Property)
	assert.Equal(t, "color", prop.Name)
	assert.Equal(t, "#fff", prop.Value)
	assertSpan(t, "color:#fff;", 32, prop.Tokens)
}

// Ensure that a nested block in an at-rule is kept as a simple block.
func TestParseStylesheet_NestedBlock(t *testing.T) {
	nodes := parser.ParseStylesheet("@media screen { div{;}}", parser.Options{})
	require.Len(t, nodes, 1)

	rule := nodes[0].(*ast.AtRule)
	assert.Equal(t, "media", rule.Name)
	require.Len(t, rule.Block.Value, 3)
	inner := rule.Block.Value[2].(*ast.SimpleBlock)
	assertSpan(t, "{;}", 19, inner.Tokens)
}

// Ensure that property declaration lists can be parsed from tokens.
func TestParsePropertiesTokens(t *testing.T) {
	tokens := tokenizer.Tokenize("x{a:b}", tokenizer.Options{})
	nodes := parser.ParsePropertiesTokens(tokens[2:5], parser.Options{})
	require.Len(t, nodes, 1)
	prop := nodes[0].(*ast.Property)
	assert.Equal(t, "a", prop.Name)
	assert.Equal(t, "b", prop.Value)
	assertSpan(t, "a:b", 2, prop.Tokens)
}

// Ensure that nesting past the depth limit is reported and kept flat.
func TestParser_MaxDepth(t *testing.T) {
	s := "a { b: ((1)) }"
	p := parser.New(s, parser.Options{MaxDepth: 2})
	nodes := p.ParseStylesheet()
	require.Len(t, nodes, 1)

	rule := nodes[0].(*ast.StyleRule)
	assert.Equal(t, s, raw(rule.Tokens))
	require.Len(t, p.Errors, 1)
	assert.EqualError(t, p.Errors[0], "nesting too deep at offset 8")

	prop := rule.Children[1].(*ast.Property)
	assert.Equal(t, "((1))", prop.Value)
}

// Ensure that a closer past the depth limit ends the enclosing block.
func TestParser_MaxDepth_Shape(t *testing.T) {
	s := "@m ((1));"
	p := parser.New(s, parser.Options{MaxDepth: 1})
	nodes := p.ParseStylesheet()
	require.Len(t, nodes, 1)
	require.Len(t, p.Errors, 1)
	assert.EqualError(t, p.Errors[0], "nesting too deep at offset 4")

	rule := nodes[0].(*ast.AtRule)
	assert.Equal(t, s, raw(rule.Tokens))
	require.Len(t, rule.Prelude, 3)

	b := rule.Prelude[1].(*ast.SimpleBlock)
	assert.True(t, b.Closed)
	assert.Equal(t, "((1)", ast.Raw(b))
	require.Len(t, b.Value, 2)
	assert.Equal(t, "(", ast.Raw(b.Value[0]))
	assert.Equal(t, ")", ast.Raw(rule.Prelude[2]))
}

// Ensure that adversarial nesting does not exhaust the stack.
func TestParser_DeepNesting(t *testing.T) {
	s := "a{" + strings.Repeat("[(", 50000)
	p := parser.New(s, parser.Options{})
	nodes := p.ParseStylesheet()
	require.Len(t, nodes, 1)
	assert.Equal(t, s, raw(ast.Tokens(nodes[0])))
	assert.NotEmpty(t, p.Errors)
	assert.Contains(t, p.Err().Error(), "nesting too deep")
}

// Ensure that tokenization errors are reported by the parser.
func TestParser_Errors(t *testing.T) {
	p := parser.New("a{b:'x\n}", parser.Options{})
	nodes := p.ParseStylesheet()
	require.Len(t, nodes, 1)
	require.Len(t, p.Errors, 1)
	assert.EqualError(t, p.Err(), "unterminated string at offset 4")

	p = parser.New("foo; bar:1", parser.Options{})
	p.ParseProperties()
	assert.EqualError(t, p.Err(), `expected colon, got ";" at offset 3`)

	assert.NoError(t, parser.New("a{b:c}", parser.Options{}).Err())
}

// Ensure that an error list formats its first error and a count.
func TestErrorList_Error(t *testing.T) {
	var tests = []struct {
		errs parser.ErrorList
		s    string
	}{
		{errs: nil, s: "no errors"},
		{errs: parser.ErrorList{&parser.Error{Message: "foo", Pos: 1}}, s: "foo at offset 1"},
		{errs: parser.ErrorList{&parser.Error{Message: "foo", Pos: 1}, &parser.Error{Message: "bar", Pos: 2}, &parser.Error{Message: "baz", Pos: 3}}, s: "foo at offset 1 (and 2 more errors)"},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.s, tt.errs.Error(), "%d", i)
	}
}
