package regexlib

import "sort"

// Complement accepts exactly the strings over d.Alphabet that d rejects.
// Symbols outside the alphabet still reject.
func Complement(d *DFA) *DFA {
	states := make([]*DFAState, len(d.States))
	for i, s := range d.States {
		states[i] = &DFAState{
			ID:        i,
			NFAStates: s.NFAStates,
			Final:     !s.Final,
			Next:      append([]int(nil), s.Next...),
		}
	}
	out := &DFA{Alphabet: append([]rune(nil), d.Alphabet...), States: states}
	out.buildIndex()
	return out
}

// Intersect accepts the strings accepted by both a and b.
func Intersect(a, b *DFA) *DFA { return Product(a, b, func(x, y bool) bool { return x && y }) }

// Union accepts the strings accepted by a or b.
func Union(a, b *DFA) *DFA { return Product(a, b, func(x, y bool) bool { return x || y }) }

// Difference accepts the strings accepted by a and rejected by b.
func Difference(a, b *DFA) *DFA { return Product(a, b, func(x, y bool) bool { return x && !y }) }

// Product runs a and b in lockstep over the union of their alphabets. A
// side that has no transition on a symbol drops out for the rest of the
// string and counts as non-final; op decides finality of each pair.
func Product(a, b *DFA, op func(bool, bool) bool) *DFA {
	type pair struct{ i, j int }
	alpha := unionRunes(a.Alphabet, b.Alphabet)

	final := func(d *DFA, s int) bool { return s >= 0 && d.States[s].Final }
	step := func(d *DFA, s int, sym rune) int {
		if s < 0 {
			return -1
		}
		t, ok := d.Step(s, sym)
		if !ok {
			return -1
		}
		return t
	}

	ids := map[pair]int{}
	var pairs []pair
	var states []*DFAState
	add := func(p pair) int {
		if id, ok := ids[p]; ok {
			return id
		}
		id := len(states)
		ids[p] = id
		pairs = append(pairs, p)
		next := make([]int, len(alpha))
		for i := range next {
			next[i] = -1
		}
		states = append(states, &DFAState{ID: id, Final: op(final(a, p.i), final(b, p.j)), Next: next})
		return id
	}

	add(pair{a.Start(), b.Start()})
	for k := 0; k < len(states); k++ {
		p := pairs[k]
		for col, sym := range alpha {
			np := pair{step(a, p.i, sym), step(b, p.j, sym)}
			if np.i < 0 && np.j < 0 {
				continue
			}
			states[k].Next[col] = add(np)
		}
	}
	return complete(alpha, states)
}

func unionRunes(a, b []rune) []rune {
	m := map[rune]struct{}{}
	for _, r := range a {
		m[r] = struct{}{}
	}
	for _, r := range b {
		m[r] = struct{}{}
	}
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
