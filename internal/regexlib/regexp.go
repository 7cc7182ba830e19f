package regexlib

import "strconv"

// Regex keeps every stage of a compiled pattern.
type Regex struct {
	pattern string
	ast     *Node
	nfa     *NFA
	dfa     *DFA
}

// Compile parses pattern and builds its NFA and DFA. A pattern that is not
// valid UTF-8 fails with ErrInvalidUTF8 before parsing.
func Compile(pattern string) (*Regex, error) {
	if err := CheckUTF8(pattern); err != nil {
		return nil, err
	}
	ast, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	nfa := BuildNFA(ast)
	return &Regex{
		pattern: pattern,
		ast:     ast,
		nfa:     nfa,
		dfa:     BuildDFA(nfa),
	}, nil
}

// MustCompile is like Compile but panics on a malformed pattern.
func MustCompile(pattern string) *Regex {
	r, err := Compile(pattern)
	if err != nil {
		panic(`regexlib: Compile(` + strconv.Quote(pattern) + `): ` + err.Error())
	}
	return r
}

func (r *Regex) String() string { return r.pattern }
func (r *Regex) AST() *Node     { return r.ast }
func (r *Regex) NFA() *NFA      { return r.nfa }
func (r *Regex) DFA() *DFA      { return r.dfa }

// MatchString reports whether the whole of s is in the language.
func (r *Regex) MatchString(s string) bool { return r.dfa.Accepts(s) }
