package regexlib

import (
	"sort"
	"strconv"
)

// DFAState is one row of the transition table.
type DFAState struct {
	ID int
	// NFAStates is the ascending set of NFA ids this state stands for. It is
	// nil for the dead state and for states built by product operations.
	NFAStates []int
	Final     bool
	// Next[i] is the target on DFA.Alphabet[i].
	Next []int
}

// DFA is a complete deterministic automaton. State 0 is the start state and
// every state has exactly one transition per alphabet symbol. A DFA is never
// modified after construction and may be shared between goroutines.
type DFA struct {
	Alphabet []rune // ascending
	States   []*DFAState
	index    map[rune]int
}

// Start returns the id of the start state.
func (d *DFA) Start() int { return 0 }

// Step follows the transition on sym. ok is false when sym is outside the
// alphabet.
func (d *DFA) Step(state int, sym rune) (next int, ok bool) {
	col, ok := d.index[sym]
	if !ok {
		return 0, false
	}
	return d.States[state].Next[col], true
}

// IsDead reports whether state is a non-final sink. It is descriptive only;
// acceptance never consults it.
func (d *DFA) IsDead(state int) bool {
	s := d.States[state]
	if s.Final {
		return false
	}
	for _, t := range s.Next {
		if t != state {
			return false
		}
	}
	return true
}

// DeadState returns the id of the first dead state, or -1.
func (d *DFA) DeadState() int {
	for i := range d.States {
		if d.IsDead(i) {
			return i
		}
	}
	return -1
}

func (d *DFA) buildIndex() {
	d.index = make(map[rune]int, len(d.Alphabet))
	for i, r := range d.Alphabet {
		d.index[r] = i
	}
}

// EpsilonClosure returns the ascending set of states reachable from set
// through zero or more epsilon edges.
func (n *NFA) EpsilonClosure(set []int) []int {
	seen := make([]bool, len(n.States))
	stack := make([]int, 0, len(set))
	out := make([]int, 0, len(set))
	for _, s := range set {
		if !seen[s] {
			seen[s] = true
			stack = append(stack, s)
			out = append(out, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.States[s].Epsilon {
			if !seen[t] {
				seen[t] = true
				stack = append(stack, t)
				out = append(out, t)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Move returns the ascending set of states reachable from set by one edge
// labelled sym.
func (n *NFA) Move(set []int, sym rune) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, s := range set {
		for _, t := range n.States[s].Edges[sym] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				out = append(out, t)
			}
		}
	}
	sort.Ints(out)
	return out
}

func (n *NFA) anyFinal(set []int) bool {
	for _, s := range set {
		if n.States[s].Final {
			return true
		}
	}
	return false
}

// subsetKey is the canonical form of an ascending id set.
func subsetKey(set []int) string {
	buf := make([]byte, 0, len(set)*3)
	for i, s := range set {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(s), 10)
	}
	return string(buf)
}

// BuildDFA determinises an NFA with the subset construction and completes
// the result with a shared dead state where transitions are missing.
func BuildDFA(n *NFA) *DFA {
	alpha := n.Alphabet
	ids := make(map[string]int)
	var states []*DFAState

	add := func(set []int) int {
		k := subsetKey(set)
		if id, ok := ids[k]; ok {
			return id
		}
		id := len(states)
		ids[k] = id
		next := make([]int, len(alpha))
		for i := range next {
			next[i] = -1
		}
		states = append(states, &DFAState{ID: id, NFAStates: set, Final: n.anyFinal(set), Next: next})
		return id
	}

	add(n.EpsilonClosure([]int{n.Start}))
	// states is the worklist: anything appended is processed in turn
	for i := 0; i < len(states); i++ {
		for col, sym := range alpha {
			moved := n.Move(states[i].NFAStates, sym)
			if len(moved) == 0 {
				continue
			}
			states[i].Next[col] = add(n.EpsilonClosure(moved))
		}
	}
	return complete(alpha, states)
}

// complete restricts the table to the symbols that label at least one
// transition and routes every missing transition to a single dead state,
// which is only created if needed. Missing transitions are marked -1.
func complete(alpha []rune, states []*DFAState) *DFA {
	used := make([]bool, len(alpha))
	for _, s := range states {
		for col, t := range s.Next {
			if t >= 0 {
				used[col] = true
			}
		}
	}
	var keep []int
	var alphabet []rune
	for col, u := range used {
		if u {
			keep = append(keep, col)
			alphabet = append(alphabet, alpha[col])
		}
	}
	if len(keep) != len(alpha) {
		for _, s := range states {
			next := make([]int, len(keep))
			for i, col := range keep {
				next[i] = s.Next[col]
			}
			s.Next = next
		}
	}

	dead := -1
	for _, s := range states {
		for col, t := range s.Next {
			if t >= 0 {
				continue
			}
			if dead < 0 {
				dead = len(states)
			}
			s.Next[col] = dead
		}
	}
	if dead >= 0 {
		next := make([]int, len(alphabet))
		for i := range next {
			next[i] = dead
		}
		states = append(states, &DFAState{ID: dead, Next: next})
	}

	d := &DFA{Alphabet: alphabet, States: states}
	d.buildIndex()
	return d
}
