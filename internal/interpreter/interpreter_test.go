package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"regexfa/internal/regexlib"
)

// ------------------------------------------------------------------- helpers

func run(t *testing.T, script string) (*Context, string, error) {
	t.Helper()
	prog, err := Parse("script", script)
	require.NoError(t, err)
	var out bytes.Buffer
	ctx := NewContext(&out)
	err = prog.Exec(ctx)
	return ctx, out.String(), err
}

// ------------------------------------------------------------------- Parser

func TestParseStatements(t *testing.T) {
	prog, err := Parse("script", `
# comment
let A = "a*b";
let B = !(A | "c") & A;
accept A "aab";
reject A "ba";
trace A "ab";
enumerate A 3;
show A;
`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 7)

	let := prog.Statements[0].Let
	require.NotNil(t, let)
	assert.Equal(t, "A", let.Name)
	require.NotNil(t, let.Expr.Left.Pattern)
	assert.Equal(t, "a*b", *let.Expr.Left.Pattern)

	b := prog.Statements[1].Let
	require.NotNil(t, b)
	require.NotNil(t, b.Expr.Left.Not)
	require.Len(t, b.Expr.Rest, 1)
	assert.Equal(t, "&", b.Expr.Rest[0].Op)

	assert.NotNil(t, prog.Statements[2].Accept)
	assert.NotNil(t, prog.Statements[3].Reject)
	assert.Equal(t, "ab", prog.Statements[4].Trace.Input)
	assert.Equal(t, 3, prog.Statements[5].Enumerate.MaxLen)
	assert.Equal(t, "A", prog.Statements[6].Show.Name)
	assert.Equal(t, 5, prog.Statements[2].Pos.Line)
}

func TestParseSyntaxError(t *testing.T) {
	for _, src := range []string{
		`let A = "a"`,
		`accept A;`,
		`enumerate A x;`,
		`let = "a";`,
	} {
		_, err := Parse("script", src)
		assert.Error(t, err, src)
	}
}

// ------------------------------------------------------------------- Exec

func TestAssertions(t *testing.T) {
	ctx, _, err := run(t, `
let A = "(a|b)*abb";
accept A "abb";
accept A "babb";
reject A "ab";
reject A "";
`)
	require.NoError(t, err)
	assert.Equal(t, 4, ctx.Passed)
	assert.Equal(t, []string{"A"}, ctx.Env.Names())
}

func TestFailedAssertion(t *testing.T) {
	ctx, _, err := run(t, "let A = \"a*b\";\naccept A \"aab\";\naccept A \"ba\";\nreject A \"b\";\n")
	require.Error(t, err)
	assert.Equal(t, `script:3:1: A rejects "ba"`, err.Error())
	assert.Equal(t, 1, ctx.Passed)

	_, _, err = run(t, "let A = \"a*b\";\nreject A \"b\";\n")
	assert.EqualError(t, err, `script:2:1: A accepts "b"`)
}

func TestUndefinedName(t *testing.T) {
	_, _, err := run(t, `accept X "a";`)
	assert.ErrorContains(t, err, "undefined automaton X")

	_, _, err = run(t, `let A = B | "a";`)
	assert.ErrorContains(t, err, "undefined automaton B")
}

func TestBadPattern(t *testing.T) {
	_, _, err := run(t, `let A = "(a|b";`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, regexlib.ErrUnmatchedParenthesis))
	assert.Contains(t, err.Error(), "script:1:1")
}

func TestInvalidUTF8(t *testing.T) {
	_, _, err := run(t, `let A = "a\xff";`)
	require.ErrorIs(t, err, regexlib.ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "script:1:1")

	ctx, _, err := run(t, `let A = "\ufffd"; accept A "\ufffd"; reject A "\xff";`)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Passed)
}

func TestSetOperations(t *testing.T) {
	ctx, _, err := run(t, `
let Any = "(a|b)*";
let As  = "a*";
let Bs  = Any - As;
accept Bs "b";
accept Bs "aab";
reject Bs "";
reject Bs "aaa";

let Both = "a+" & "(a|b)(a|b)";
accept Both "aa";
reject Both "a";
reject Both "ab";

let Either = "a" | "bb";
accept Either "a";
accept Either "bb";
reject Either "ab";

let NotA = !"a";
accept NotA "";
accept NotA "aa";
reject NotA "a";
`)
	require.NoError(t, err)
	assert.Equal(t, 13, ctx.Passed)

	b, ok := ctx.Env.Get("Bs")
	require.True(t, ok)
	assert.Nil(t, b.Regex)
	assert.Equal(t, `("(a|b)*" - "a*")`, b.Source)
}

func TestTraceOutput(t *testing.T) {
	_, out, err := run(t, `let A = "a*b"; trace A "ab"; trace A "ax"; trace A "ba";`)
	require.NoError(t, err)
	want := strings.Join([]string{
		`trace A "ab"`,
		`  start q0`,
		`  q0 --a--> q1`,
		`  q1 --b--> q2`,
		`  end q2 (final)`,
		`  ACCEPTED`,
		`trace A "ax"`,
		`  start q0`,
		`  q0 --a--> q1`,
		`  q1 --x--> no transition`,
		`  REJECTED`,
		`trace A "ba"`,
		`  start q0`,
		`  q0 --b--> q2`,
		`  q2 --a--> q3 (dead)`,
		`  end q3`,
		`  REJECTED`,
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestEnumerateOutput(t *testing.T) {
	_, out, err := run(t, `let A = "(a|b)*c"; enumerate A 2;`)
	require.NoError(t, err)
	assert.Equal(t, "enumerate A 2\n  \"c\"\n  \"ac\"\n  \"bc\"\n", out)
}

func TestEnumerateLimit(t *testing.T) {
	prog, err := Parse("script", `let A = "a*"; enumerate A 9;`)
	require.NoError(t, err)
	ctx := NewContext(&bytes.Buffer{})
	ctx.MaxEnumerate = 8
	assert.ErrorContains(t, prog.Exec(ctx), "exceeds limit 8")
}

func TestShow(t *testing.T) {
	_, out, err := run(t, `let A = "ab"; show A;`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph DFA {"))
}

func TestNormalize(t *testing.T) {
	prog, err := Parse("script", "let A = \"\u00e9+\"; accept A \"e\u0301e\u0301\";")
	require.NoError(t, err)

	ctx := NewContext(&bytes.Buffer{})
	assert.Error(t, prog.Exec(ctx))

	ctx = NewContext(&bytes.Buffer{})
	ctx.Normalize = norm.NFC.String
	assert.NoError(t, prog.Exec(ctx))
}

func TestEnvironmentString(t *testing.T) {
	ctx, _, err := run(t, `let B = "b"; let A = "a" | B;`)
	require.NoError(t, err)
	assert.Equal(t, `[A=("a" | "b") B="b"]`, ctx.Env.String())
}

// ------------------------------------------------------------------- Player

func TestPlayerDelay(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(&out, 50*time.Millisecond, false)
	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	d := regexlib.MustCompile("ab").DFA()
	assert.True(t, p.Play(d, "ab"))
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}, slept)

	slept = nil
	p.Delay = 0
	assert.False(t, p.Play(d, "b"))
	assert.Empty(t, slept)
}
