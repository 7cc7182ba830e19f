package regexlib

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

type dfaDoc struct {
	Alphabet []string   `json:"alphabet"`
	States   []stateDoc `json:"states"`
}

type stateDoc struct {
	ID        int   `json:"id"`
	Final     bool  `json:"final"`
	Dead      bool  `json:"dead,omitempty"`
	NFAStates []int `json:"nfa_states,omitempty"`
	Next      []int `json:"next"`
}

// MarshalJSON writes the transition table; next[i] is the target on
// alphabet[i].
func (d *DFA) MarshalJSON() ([]byte, error) {
	doc := dfaDoc{
		Alphabet: make([]string, len(d.Alphabet)),
		States:   make([]stateDoc, len(d.States)),
	}
	for i, r := range d.Alphabet {
		doc.Alphabet[i] = string(r)
	}
	for i, s := range d.States {
		doc.States[i] = stateDoc{
			ID:        s.ID,
			Final:     s.Final,
			Dead:      d.IsDead(i),
			NFAStates: s.NFAStates,
			Next:      s.Next,
		}
	}
	return json.Marshal(doc)
}

type stepDoc struct {
	Kind   string `json:"kind"`
	From   int    `json:"from"`
	Symbol string `json:"symbol,omitempty"`
	To     *int   `json:"to,omitempty"`
}

// MarshalJSON writes a step as {kind, from, symbol, to}. symbol is set on
// moves and rejects, to only on moves.
func (s Step) MarshalJSON() ([]byte, error) {
	doc := stepDoc{Kind: s.Kind.String(), From: s.From}
	if s.Kind == StepMove || s.Kind == StepReject {
		doc.Symbol = string(s.Symbol)
	}
	if s.Kind == StepMove {
		to := s.To
		doc.To = &to
	}
	return json.Marshal(doc)
}

type nfaStepDoc struct {
	Kind   string `json:"kind"`
	Active []int  `json:"active"`
	Symbol string `json:"symbol,omitempty"`
	Next   []int  `json:"next,omitempty"`
}

func (s NFAStep) MarshalJSON() ([]byte, error) {
	doc := nfaStepDoc{Kind: s.Kind.String(), Active: s.Active, Next: s.Next}
	if s.Kind == StepMove || s.Kind == StepReject {
		doc.Symbol = string(s.Symbol)
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads a table written by MarshalJSON and checks that it
// describes a complete DFA.
func (d *DFA) UnmarshalJSON(data []byte) error {
	var doc dfaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDFA, err)
	}
	if len(doc.States) == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidDFA)
	}
	var alphabet []rune
	for _, sym := range doc.Alphabet {
		r, size := utf8.DecodeRuneInString(sym)
		if size == 0 || size != len(sym) {
			return fmt.Errorf("%w: symbol %q is not a single rune", ErrInvalidDFA, sym)
		}
		if n := len(alphabet); n > 0 && r <= alphabet[n-1] {
			return fmt.Errorf("%w: alphabet not strictly ascending at %q", ErrInvalidDFA, sym)
		}
		alphabet = append(alphabet, r)
	}
	states := make([]*DFAState, len(doc.States))
	for i, s := range doc.States {
		if s.ID != i {
			return fmt.Errorf("%w: state %d has id %d", ErrInvalidDFA, i, s.ID)
		}
		if len(s.Next) != len(alphabet) {
			return fmt.Errorf("%w: state %d has %d transitions, want %d", ErrInvalidDFA, i, len(s.Next), len(alphabet))
		}
		for _, t := range s.Next {
			if t < 0 || t >= len(doc.States) {
				return fmt.Errorf("%w: state %d targets unknown state %d", ErrInvalidDFA, i, t)
			}
		}
		states[i] = &DFAState{ID: i, NFAStates: s.NFAStates, Final: s.Final, Next: s.Next}
	}
	d.Alphabet = alphabet
	d.States = states
	d.buildIndex()
	return nil
}
