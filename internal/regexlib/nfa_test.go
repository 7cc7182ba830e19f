package regexlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNFA(t *testing.T, pattern string) *NFA {
	t.Helper()
	ast, err := Parse(pattern)
	require.NoError(t, err)
	return BuildNFA(ast)
}

func TestBuildNFASymbol(t *testing.T) {
	n := buildNFA(t, "a")
	require.Len(t, n.States, 2)
	assert.Equal(t, 0, n.Start)
	assert.Equal(t, []int{1}, n.Finals)
	assert.Equal(t, []rune{'a'}, n.Alphabet)
	assert.Equal(t, []int{1}, n.States[0].Edges['a'])
	assert.True(t, n.States[1].Final)
}

func TestBuildNFAStarAndPlus(t *testing.T) {
	star := buildNFA(t, "a*")
	require.Len(t, star.States, 4)
	assert.Equal(t, 2, star.Start)
	assert.Equal(t, []int{3}, star.Finals)
	assert.ElementsMatch(t, []int{0, 3}, star.States[2].Epsilon)
	assert.ElementsMatch(t, []int{0, 3}, star.States[1].Epsilon)
	assert.False(t, star.States[1].Final)

	plus := buildNFA(t, "a+")
	require.Len(t, plus.States, 4)
	assert.Equal(t, []int{0}, plus.States[2].Epsilon, "no zero-repetition edge")
	assert.ElementsMatch(t, []int{0, 3}, plus.States[1].Epsilon)
}

func TestBuildNFAUnionAndConcat(t *testing.T) {
	u := buildNFA(t, "a|b|c")
	require.Len(t, u.States, 8)
	assert.Equal(t, 6, u.Start)
	assert.Equal(t, []int{7}, u.Finals)
	assert.Equal(t, []int{0, 2, 4}, u.States[6].Epsilon)
	assert.Equal(t, []rune{'a', 'b', 'c'}, u.Alphabet)

	c := buildNFA(t, "ab")
	require.Len(t, c.States, 4)
	assert.Equal(t, 0, c.Start)
	assert.Equal(t, []int{3}, c.Finals)
	assert.Equal(t, []int{2}, c.States[1].Epsilon)
	assert.False(t, c.States[1].Final)
}

func TestBuildNFAEmpty(t *testing.T) {
	n := buildNFA(t, "")
	require.Len(t, n.States, 1)
	assert.Equal(t, []int{0}, n.Finals)
	assert.Empty(t, n.Alphabet)
}

func TestBuildNFAInvariants(t *testing.T) {
	for _, p := range differentialPatterns {
		n := buildNFA(t, p)
		require.Less(t, n.Start, len(n.States), p)

		var finals []int
		for i, s := range n.States {
			assert.Equal(t, i, s.ID, "%s: ids are dense", p)
			if s.Final {
				finals = append(finals, i)
			}
			for _, targets := range s.Edges {
				for _, to := range targets {
					assert.Less(t, to, len(n.States), p)
				}
			}
			for _, to := range s.Epsilon {
				assert.Less(t, to, len(n.States), p)
			}
		}
		assert.Equal(t, n.Finals, finals, p)
	}
}

func TestBuildNFAIndependentCalls(t *testing.T) {
	first := buildNFA(t, "ab")
	second := buildNFA(t, "ab")
	assert.Equal(t, first.Start, second.Start)
	assert.Equal(t, len(first.States), len(second.States))
}

func TestEpsilonClosureAndMove(t *testing.T) {
	n := buildNFA(t, "a*b")
	// a: 0-a->1, star: 2,3, b: 4-b->5
	assert.Equal(t, []int{0, 2, 3, 4}, n.EpsilonClosure([]int{n.Start}))
	assert.Equal(t, []int{1}, n.Move([]int{0, 2, 3, 4}, 'a'))
	assert.Equal(t, []int{5}, n.Move([]int{0, 2, 3, 4}, 'b'))
	assert.Empty(t, n.Move([]int{5}, 'a'))
}
