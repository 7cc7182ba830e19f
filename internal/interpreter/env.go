package interpreter

import (
	"fmt"
	"sort"
	"strings"

	"regexfa/internal/regexlib"
)

// Binding is a named automaton. Regex is set only when the value came
// straight from a pattern; combinations carry just the DFA.
type Binding struct {
	Source string
	Regex  *regexlib.Regex
	DFA    *regexlib.DFA
}

// Environment holds variables

type Environment struct {
	vars map[string]*Binding
}

func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]*Binding)}
}

func (e *Environment) Get(name string) (*Binding, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Environment) Set(name string, val *Binding) {
	e.vars[name] = val
}

// Names returns the bound names in ascending order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) String() string {
	parts := make([]string, 0, len(e.vars))
	for _, n := range e.Names() {
		parts = append(parts, fmt.Sprintf("%s=%s", n, e.vars[n].Source))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
