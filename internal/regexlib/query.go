package regexlib

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Accepts runs input through the automaton. A symbol outside the alphabet
// rejects immediately, and so does a byte that is not valid UTF-8.
func (d *DFA) Accepts(input string) bool {
	cur := d.Start()
	for i, r := range input {
		if invalidByte(input, i, r) {
			return false
		}
		next, ok := d.Step(cur, r)
		if !ok {
			return false
		}
		cur = next
	}
	return d.States[cur].Final
}

// StepKind tells how a Step should be read.
type StepKind int

const (
	StepStart  StepKind = iota // before any input; From is the start state
	StepMove                   // From --Symbol--> To
	StepReject                 // no transition from From on Symbol; the walk stops
	StepEnd                    // input consumed; From is the state reached
)

func (k StepKind) String() string {
	switch k {
	case StepStart:
		return "start"
	case StepMove:
		return "move"
	case StepReject:
		return "reject"
	case StepEnd:
		return "end"
	}
	return "unknown"
}

// Step is one entry of a trace. To is -1 unless Kind is StepMove.
type Step struct {
	Kind   StepKind
	From   int
	Symbol rune
	To     int
}

func (s Step) String() string {
	switch s.Kind {
	case StepMove:
		return fmt.Sprintf("q%d --%s--> q%d", s.From, quoteSymbol(s.Symbol), s.To)
	case StepReject:
		return fmt.Sprintf("q%d --%s--> no transition", s.From, quoteSymbol(s.Symbol))
	default:
		return fmt.Sprintf("%s q%d", s.Kind, s.From)
	}
}

// Trace walks input like Accepts and records every step. The result starts
// with a StepStart marker and ends with either a StepReject or a StepEnd.
func (d *DFA) Trace(input string) []Step {
	cur := d.Start()
	steps := []Step{{Kind: StepStart, From: cur, To: -1}}
	for i, r := range input {
		next, ok := d.Step(cur, r)
		if !ok || invalidByte(input, i, r) {
			return append(steps, Step{Kind: StepReject, From: cur, Symbol: r, To: -1})
		}
		steps = append(steps, Step{Kind: StepMove, From: cur, Symbol: r, To: next})
		cur = next
	}
	return append(steps, Step{Kind: StepEnd, From: cur, To: -1})
}

// Accepted reports whether a trace produced by Trace ended in a final state.
func (d *DFA) Accepted(steps []Step) bool {
	if len(steps) == 0 {
		return false
	}
	last := steps[len(steps)-1]
	return last.Kind == StepEnd && d.States[last.From].Final
}

// Enumerate lists every accepted string of at most maxLen symbols, ordered
// by length and then lexicographically. The work grows with
// len(Alphabet)^maxLen; callers choose the bound.
func (d *DFA) Enumerate(maxLen int) []string {
	if maxLen < 0 {
		return nil
	}
	type visit struct {
		s     string
		state int
	}
	type item struct {
		visit
		n int
	}

	var out []string
	if d.States[d.Start()].Final {
		out = append(out, "")
	}
	seen := make(map[visit]struct{})
	queue := []item{{visit: visit{state: d.Start()}}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.n > 0 && d.States[cur.state].Final {
			out = append(out, cur.s)
		}
		if cur.n >= maxLen {
			continue
		}
		for col, sym := range d.Alphabet {
			v := visit{s: cur.s + string(sym), state: d.States[cur.state].Next[col]}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			queue = append(queue, item{visit: v, n: cur.n + 1})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i]), utf8.RuneCountInString(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

// NFAStep is one entry of an NFA trace: the active set before a symbol and
// the epsilon-closed set after it. Next is empty on StepReject, and Symbol
// and Next are unset on StepStart and StepEnd.
type NFAStep struct {
	Kind   StepKind
	Active []int
	Symbol rune
	Next   []int
}

// Trace simulates the NFA directly, tracking the whole active set.
func (n *NFA) Trace(input string) []NFAStep {
	cur := n.EpsilonClosure([]int{n.Start})
	steps := []NFAStep{{Kind: StepStart, Active: cur}}
	for i, r := range input {
		var moved []int
		if !invalidByte(input, i, r) {
			moved = n.Move(cur, r)
		}
		if len(moved) == 0 {
			return append(steps, NFAStep{Kind: StepReject, Active: cur, Symbol: r})
		}
		next := n.EpsilonClosure(moved)
		steps = append(steps, NFAStep{Kind: StepMove, Active: cur, Symbol: r, Next: next})
		cur = next
	}
	return append(steps, NFAStep{Kind: StepEnd, Active: cur})
}

// Accepts simulates the NFA on input.
func (n *NFA) Accepts(input string) bool {
	steps := n.Trace(input)
	last := steps[len(steps)-1]
	return last.Kind == StepEnd && n.anyFinal(last.Active)
}

// invalidByte reports whether r, decoded from s at offset i, stands for a
// malformed byte rather than an encoded U+FFFD.
func invalidByte(s string, i int, r rune) bool {
	if r != utf8.RuneError {
		return false
	}
	_, w := utf8.DecodeRuneInString(s[i:])
	return w == 1
}
