package interpreter

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"regexfa/internal/regexlib"
)

type Program struct {
	Statements []*Statement `parser:"@@*"`
}

type Statement struct {
	Pos lexer.Position

	Let       *Let       `parser:"  @@ ';'"`
	Accept    *Check     `parser:"| 'accept' @@ ';'"`
	Reject    *Check     `parser:"| 'reject' @@ ';'"`
	Trace     *Check     `parser:"| 'trace' @@ ';'"`
	Enumerate *Enumerate `parser:"| @@ ';'"`
	Show      *Show      `parser:"| @@ ';'"`
}

type Let struct {
	Name string `parser:"'let' @Ident"`
	Expr *Expr  `parser:"'=' @@"`
}

type Check struct {
	Name  string `parser:"@Ident"`
	Input string `parser:"@String"`
}

type Enumerate struct {
	Name   string `parser:"'enumerate' @Ident"`
	MaxLen int    `parser:"@Int"`
}

type Show struct {
	Name string `parser:"'show' @Ident"`
}

// Expr combines automata left to right: '|' union, '&' intersection and
// '-' difference, all with the same precedence.
type Expr struct {
	Left *Operand     `parser:"@@"`
	Rest []*OpOperand `parser:"@@*"`
}

type OpOperand struct {
	Op    string   `parser:"@('|' | '&' | '-')"`
	Right *Operand `parser:"@@"`
}

type Operand struct {
	Not     *Operand `parser:"  '!' @@"`
	Pattern *string  `parser:"| @String"`
	Name    *string  `parser:"| @Ident"`
	Sub     *Expr    `parser:"| '(' @@ ')'"`
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[=;|&!()-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Program](
	participle.Lexer(scriptLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// Parse reads a script. name is used in positions.
func Parse(name, data string) (*Program, error) {
	return parser.ParseString(name, data)
}

func (p *Program) Exec(ctx *Context) error {
	for _, stmt := range p.Statements {
		if err := stmt.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Statement) Exec(ctx *Context) error {
	switch {
	case s.Let != nil:
		b, err := s.Let.Expr.Eval(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Pos, err)
		}
		ctx.Env.Set(s.Let.Name, b)
		ctx.log().Debug("bound automaton", "name", s.Let.Name, "source", b.Source, "states", len(b.DFA.States))
	case s.Accept != nil, s.Reject != nil:
		c, want := s.Accept, true
		if c == nil {
			c, want = s.Reject, false
		}
		b, err := ctx.lookup(c.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Pos, err)
		}
		if got := b.DFA.Accepts(ctx.normalize(c.Input)); got != want {
			verb := "rejects"
			if got {
				verb = "accepts"
			}
			return fmt.Errorf("%s: %s %s %s", s.Pos, c.Name, verb, strconv.Quote(c.Input))
		}
		ctx.Passed++
	case s.Trace != nil:
		b, err := ctx.lookup(s.Trace.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Pos, err)
		}
		fmt.Fprintf(ctx.Out, "trace %s %s\n", s.Trace.Name, strconv.Quote(s.Trace.Input))
		ctx.player().Play(b.DFA, ctx.normalize(s.Trace.Input))
	case s.Enumerate != nil:
		b, err := ctx.lookup(s.Enumerate.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Pos, err)
		}
		if ctx.MaxEnumerate > 0 && s.Enumerate.MaxLen > ctx.MaxEnumerate {
			return fmt.Errorf("%s: enumerate length %d exceeds limit %d", s.Pos, s.Enumerate.MaxLen, ctx.MaxEnumerate)
		}
		fmt.Fprintf(ctx.Out, "enumerate %s %d\n", s.Enumerate.Name, s.Enumerate.MaxLen)
		for _, w := range b.DFA.Enumerate(s.Enumerate.MaxLen) {
			fmt.Fprintf(ctx.Out, "  %s\n", strconv.Quote(w))
		}
	case s.Show != nil:
		b, err := ctx.lookup(s.Show.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Pos, err)
		}
		return regexlib.WriteDOT(ctx.Out, b.DFA)
	}
	return nil
}

func (e *Expr) Eval(ctx *Context) (*Binding, error) {
	val, err := e.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	for _, rt := range e.Rest {
		v, err := rt.Right.Eval(ctx)
		if err != nil {
			return nil, err
		}
		var d *regexlib.DFA
		switch rt.Op {
		case "|":
			d = regexlib.Union(val.DFA, v.DFA)
		case "&":
			d = regexlib.Intersect(val.DFA, v.DFA)
		case "-":
			d = regexlib.Difference(val.DFA, v.DFA)
		}
		val = &Binding{Source: "(" + val.Source + " " + rt.Op + " " + v.Source + ")", DFA: d}
	}
	return val, nil
}

func (o *Operand) Eval(ctx *Context) (*Binding, error) {
	switch {
	case o.Not != nil:
		v, err := o.Not.Eval(ctx)
		if err != nil {
			return nil, err
		}
		return &Binding{Source: "!" + v.Source, DFA: regexlib.Complement(v.DFA)}, nil
	case o.Pattern != nil:
		p := ctx.normalize(*o.Pattern)
		re, err := regexlib.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", strconv.Quote(p), err)
		}
		return &Binding{Source: strconv.Quote(p), Regex: re, DFA: re.DFA()}, nil
	case o.Name != nil:
		return ctx.lookup(*o.Name)
	case o.Sub != nil:
		return o.Sub.Eval(ctx)
	}
	return nil, fmt.Errorf("invalid operand")
}
