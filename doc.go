/*
Package css implements a CSS Syntax Level 3 tokenizer and parser. This is
meant to be a low-level library for extracting a syntax tree from raw CSS text
without losing any of the text it came from.

This package can be used for building tools to sanitize, rewrite and format
CSS text.

# Basics

CSS parsing occurs in two steps. First the tokenizer breaks up a stream of
code points into tokens. These tokens represent the most basic units of the
CSS syntax such as identifiers, whitespace, and strings. The second step is to
feed these tokens into the parser which creates the syntax tree based on the
context of the tokens.

Every token records its offset and the exact text it was read from, and every
node records the run of tokens it was built from. Printing a tree therefore
reproduces the input:

	nodes := css.Parse(src, css.Options{PreserveComments: true, PreserveHacks: true})
	out := css.Stringify(nodes, nil) // out == src

Parsing never fails. Malformed input produces bad-string, bad-url or
error-flagged delim tokens, and rules or declarations that cannot be parsed
are dropped. The parser package records positioned errors for callers that
want them.

# Syntax Tree

At the top level a stylesheet is a list of rules, along with any whitespace
and comments between them. A rule is either an AtRule or a StyleRule.

An AtRule starts with an "@" keyword, followed by zero or more component
values, and ends with either a {}-block or a semicolon. The block is kept as a
SimpleBlock. This package doesn't understand the specifics of different
at-rules (such as @media queries), so the block's tokens can be parsed again
by the caller:

	rules := parser.ParseRulesTokens(rule.Block.Contents(), parser.Options{})

A StyleRule is a qualified rule whose prelude has been kept as an opaque
Selector and whose block has been parsed as a list of properties. A Property
is an identifier followed by a colon and a value. Its Important flag is set if
the last two significant tokens are a case-insensitive "!important".

Component values are the basic unit inside rules and declarations. A component
value is a SimpleBlock, a Function, or a Token. A simple block starts with
either a {, [, or (, has zero or more component values, and then ends with the
mirror of the starting token (}, ], or )). A Function is an identifier
immediately followed by a left parenthesis, then zero or more component
values, and then ends with a right parenthesis.
*/
package css
