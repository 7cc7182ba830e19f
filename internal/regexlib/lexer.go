package regexlib

import (
	"fmt"
	"unicode/utf8"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

type tokenType int

const (
	tEOF    tokenType = iota
	tChar             // literal rune
	tLParen           // (
	tRParen           // )
	tStar             // *
	tPlus             // +
	tUnion            // |
)

type token struct {
	typ tokenType
	ch  rune // literal value; also set for '*' and '+' which are literals in factor position
	pos int  // byte offset
}

// Every rune is a token of its own; the catch-all Char rule comes last.
var patternLexer = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Union", Pattern: `\|`},
	{Name: "Char", Pattern: `(?s:.)`},
})

var tokenTypes = func() map[plexer.TokenType]tokenType {
	syms := patternLexer.Symbols()
	return map[plexer.TokenType]tokenType{
		syms["LParen"]: tLParen,
		syms["RParen"]: tRParen,
		syms["Star"]:   tStar,
		syms["Plus"]:   tPlus,
		syms["Union"]:  tUnion,
		syms["Char"]:   tChar,
	}
}()

// tokenize splits a pattern into tokens terminated by a tEOF token
// positioned at len(pattern).
func tokenize(pattern string) ([]token, error) {
	lex, err := patternLexer.LexString("", pattern)
	if err != nil {
		return nil, fmt.Errorf("tokenize pattern: %w", err)
	}
	raw, err := plexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("tokenize pattern: %w", err)
	}
	out := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() {
			break
		}
		typ, ok := tokenTypes[t.Type]
		if !ok {
			return nil, fmt.Errorf("tokenize pattern: unexpected token %q at offset %d", t.Value, t.Pos.Offset)
		}
		r, _ := utf8.DecodeRuneInString(t.Value)
		out = append(out, token{typ: typ, ch: r, pos: t.Pos.Offset})
	}
	return append(out, token{typ: tEOF, pos: len(pattern)}), nil
}
