package regexlib

import "sort"

// NFAState is one state of a Thompson automaton. IDs are dense and only
// meaningful inside the NFA that created the state.
type NFAState struct {
	ID      int
	Edges   map[rune][]int
	Epsilon []int
	Final   bool
}

// NFA is a nondeterministic automaton with epsilon moves.
type NFA struct {
	States   []*NFAState
	Start    int
	Finals   []int  // ascending
	Alphabet []rune // ascending, every symbol labelling some edge
}

// nfaFrag is a partially built automaton: an entry state and the states
// that are final until the fragment is wired into its parent.
type nfaFrag struct {
	start  int
	finals []int
}

// nfaBuilder owns the id space of a single BuildNFA call.
type nfaBuilder struct {
	states []*NFAState
	alpha  map[rune]struct{}
}

func (b *nfaBuilder) newState(final bool) int {
	id := len(b.states)
	b.states = append(b.states, &NFAState{ID: id, Final: final})
	return id
}

func (b *nfaBuilder) addEdge(from int, sym rune, to int) {
	s := b.states[from]
	if s.Edges == nil {
		s.Edges = make(map[rune][]int)
	}
	s.Edges[sym] = append(s.Edges[sym], to)
	b.alpha[sym] = struct{}{}
}

func (b *nfaBuilder) addEpsilon(from, to int) {
	b.states[from].Epsilon = append(b.states[from].Epsilon, to)
}

// patchOuts clears the final flag of outs and links each of them to every
// target with an epsilon edge.
func (b *nfaBuilder) patchOuts(outs []int, targets ...int) {
	for _, s := range outs {
		b.states[s].Final = false
		for _, t := range targets {
			b.addEpsilon(s, t)
		}
	}
}

// BuildNFA compiles a syntax tree with the Thompson construction. Every
// well-formed tree is accepted.
//
// The tree is walked post-order with an explicit stack, so deeply nested
// patterns do not recurse.
func BuildNFA(root *Node) *NFA {
	b := &nfaBuilder{alpha: make(map[rune]struct{})}

	type frame struct {
		n        *Node
		expanded bool
	}
	stack := []frame{{n: root}}
	var frags []nfaFrag
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.expanded && len(f.n.Children) > 0 {
			stack = append(stack, frame{n: f.n, expanded: true})
			for i := len(f.n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{n: f.n.Children[i]})
			}
			continue
		}
		k := len(f.n.Children)
		frag := b.combine(f.n, frags[len(frags)-k:])
		frags = append(frags[:len(frags)-k], frag)
	}

	top := frags[0]
	finals := append([]int(nil), top.finals...)
	sort.Ints(finals)
	alphabet := make([]rune, 0, len(b.alpha))
	for r := range b.alpha {
		alphabet = append(alphabet, r)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })

	return &NFA{States: b.states, Start: top.start, Finals: finals, Alphabet: alphabet}
}

// combine builds the fragment for n from the fragments of its children.
func (b *nfaBuilder) combine(n *Node, kids []nfaFrag) nfaFrag {
	switch n.Kind {
	case NodeEmpty:
		s := b.newState(true)
		return nfaFrag{start: s, finals: []int{s}}
	case NodeSymbol:
		s := b.newState(false)
		e := b.newState(true)
		b.addEdge(s, n.Char, e)
		return nfaFrag{start: s, finals: []int{e}}
	case NodeConcat:
		for i := 0; i < len(kids)-1; i++ {
			b.patchOuts(kids[i].finals, kids[i+1].start)
		}
		return nfaFrag{start: kids[0].start, finals: kids[len(kids)-1].finals}
	case NodeUnion:
		s := b.newState(false)
		e := b.newState(true)
		for _, k := range kids {
			b.addEpsilon(s, k.start)
			b.patchOuts(k.finals, e)
		}
		return nfaFrag{start: s, finals: []int{e}}
	case NodeStar, NodePlus:
		s := b.newState(false)
		e := b.newState(true)
		inner := kids[0]
		b.addEpsilon(s, inner.start)
		if n.Kind == NodeStar {
			b.addEpsilon(s, e) // zero repetitions
		}
		b.patchOuts(inner.finals, inner.start, e)
		return nfaFrag{start: s, finals: []int{e}}
	default:
		panic("regexlib: unknown node kind " + n.Kind.String())
	}
}
