package regexlib

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceAccepted(t *testing.T) {
	d := newRE(t, "a*b").DFA()
	steps := d.Trace("aab")
	assert.Equal(t, []Step{
		{Kind: StepStart, From: 0, To: -1},
		{Kind: StepMove, From: 0, Symbol: 'a', To: 1},
		{Kind: StepMove, From: 1, Symbol: 'a', To: 1},
		{Kind: StepMove, From: 1, Symbol: 'b', To: 2},
		{Kind: StepEnd, From: 2, To: -1},
	}, steps)
	assert.True(t, d.Accepted(steps))
}

func TestTraceIntoDeadState(t *testing.T) {
	d := newRE(t, "a*b").DFA()
	steps := d.Trace("ba")
	require.Len(t, steps, 4)
	assert.Equal(t, Step{Kind: StepMove, From: 2, Symbol: 'a', To: 3}, steps[2])
	assert.Equal(t, Step{Kind: StepEnd, From: 3, To: -1}, steps[3])
	assert.False(t, d.Accepted(steps))
}

func TestTraceUnknownSymbol(t *testing.T) {
	d := newRE(t, "a*b").DFA()
	steps := d.Trace("axb")
	assert.Equal(t, []Step{
		{Kind: StepStart, From: 0, To: -1},
		{Kind: StepMove, From: 0, Symbol: 'a', To: 1},
		{Kind: StepReject, From: 1, Symbol: 'x', To: -1},
	}, steps)
	assert.False(t, d.Accepted(steps))
	assert.Equal(t, "q1 --x--> no transition", steps[2].String())
	assert.Equal(t, "q0 --a--> q1", steps[1].String())
	assert.Equal(t, "start q0", steps[0].String())
}

func TestTraceAgreesWithAccepts(t *testing.T) {
	for _, p := range differentialPatterns {
		d := newRE(t, p).DFA()
		for _, s := range words("abcx", 3) {
			steps := d.Trace(s)
			assert.Equal(t, d.Accepts(s), d.Accepted(steps), "%s on %q", p, s)
			assert.Equal(t, steps, d.Trace(s), "trace is deterministic")
			for i := 1; i < len(steps); i++ {
				assert.Equal(t, steps[i].From, stateAfter(steps[i-1]), "%s on %q step %d", p, s, i)
			}
		}
	}
}

func stateAfter(s Step) int {
	if s.Kind == StepMove {
		return s.To
	}
	return s.From
}

func TestEnumerate(t *testing.T) {
	tests := []struct {
		pattern string
		maxLen  int
		want    []string
	}{
		{"ab|cd", 2, []string{"ab", "cd"}},
		{"ab|cd", 1, nil},
		{"a*", 3, []string{"", "a", "aa", "aaa"}},
		{"a*", 0, []string{""}},
		{"a+", 0, nil},
		{"(a|b)*a", 2, []string{"a", "aa", "ba"}},
		{"(a|b)+", 2, []string{"a", "b", "aa", "ab", "ba", "bb"}},
		{"b|aa|c", 2, []string{"b", "c", "aa"}},
		{"a", -1, nil},
	}
	for _, tt := range tests {
		got := newRE(t, tt.pattern).DFA().Enumerate(tt.maxLen)
		assert.Equal(t, tt.want, got, "%s up to %d", tt.pattern, tt.maxLen)
	}
}

func TestEnumerateMatchesBruteForce(t *testing.T) {
	for _, p := range differentialPatterns {
		d := newRE(t, p).DFA()
		var want []string
		for _, s := range words(string(d.Alphabet), 4) {
			if d.Accepts(s) {
				want = append(want, s)
			}
		}
		assert.Equal(t, want, d.Enumerate(4), p)
	}
}

func TestEnumerateMonotonic(t *testing.T) {
	for _, p := range differentialPatterns {
		d := newRE(t, p).DFA()
		prev := d.Enumerate(0)
		for n := 1; n <= 5; n++ {
			cur := d.Enumerate(n)
			assert.Subset(t, cur, prev, "%s: %d vs %d", p, n-1, n)
			for _, s := range cur {
				assert.True(t, d.Accepts(s), "%s enumerated %q", p, s)
			}
			prev = cur
		}
	}
}

func TestNFATrace(t *testing.T) {
	n := newRE(t, "a*b").NFA()
	steps := n.Trace("ab")
	require.Len(t, steps, 4)
	assert.Equal(t, NFAStep{Kind: StepStart, Active: []int{0, 2, 3, 4}}, steps[0])
	assert.Equal(t, NFAStep{Kind: StepMove, Active: []int{0, 2, 3, 4}, Symbol: 'a', Next: []int{0, 1, 3, 4}}, steps[1])
	assert.Equal(t, NFAStep{Kind: StepMove, Active: []int{0, 1, 3, 4}, Symbol: 'b', Next: []int{5}}, steps[2])
	assert.Equal(t, NFAStep{Kind: StepEnd, Active: []int{5}}, steps[3])
	assert.True(t, n.Accepts("ab"))

	rej := n.Trace("ba")
	assert.Equal(t, StepReject, rej[len(rej)-1].Kind)
	assert.Equal(t, 'a', rej[len(rej)-1].Symbol)
	assert.False(t, n.Accepts("ba"))
}

func TestInvalidUTF8(t *testing.T) {
	_, err := Compile("a\xffb")
	require.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "offset 1")
	assert.NoError(t, CheckUTF8("a�b"))

	re := newRE(t, "�+")
	d := re.DFA()
	assert.Equal(t, []rune{utf8.RuneError}, d.Alphabet)
	assert.True(t, d.Accepts("��"))
	for _, in := range []string{"\xff", "\xfe", "�\xff", "\xef\xbf"} {
		assert.False(t, d.Accepts(in), "%q", in)
		assert.False(t, re.NFA().Accepts(in), "%q", in)

		steps := d.Trace(in)
		assert.Equal(t, StepReject, steps[len(steps)-1].Kind, "%q", in)
		assert.False(t, d.Accepted(steps))
	}
}
