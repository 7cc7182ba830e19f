package regexlib

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteDOT prints a Graphviz description of d: the start arrow, final
// states as double circles, the dead state labelled (DEAD) without its
// self loops, and one edge per (source, target) pair carrying every symbol
// that connects them.
func WriteDOT(w io.Writer, d *DFA) error {
	var b strings.Builder
	b.WriteString("digraph DFA {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    _start [shape=point];\n")
	for _, s := range d.States {
		shape := "circle"
		if s.Final {
			shape = "doublecircle"
		}
		label := fmt.Sprintf("q%d", s.ID)
		if d.IsDead(s.ID) {
			label += `\n(DEAD)`
		}
		fmt.Fprintf(&b, "    q%d [shape=%s, label=\"%s\"];\n", s.ID, shape, label)
	}
	fmt.Fprintf(&b, "    _start -> q%d;\n", d.Start())
	for _, s := range d.States {
		dead := d.IsDead(s.ID)
		var order []int
		groups := map[int][]string{}
		for col, to := range s.Next {
			if dead && to == s.ID {
				continue
			}
			if _, ok := groups[to]; !ok {
				order = append(order, to)
			}
			groups[to] = append(groups[to], dotEscape(string(d.Alphabet[col])))
		}
		sort.Ints(order)
		for _, to := range order {
			fmt.Fprintf(&b, "    q%d -> q%d [label=\"%s\"];\n", s.ID, to, strings.Join(groups[to], ","))
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteNFADOT prints a Graphviz description of n with epsilon edges dashed.
func WriteNFADOT(w io.Writer, n *NFA) error {
	var b strings.Builder
	b.WriteString("digraph NFA {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    _start [shape=point];\n")
	for _, s := range n.States {
		shape := "circle"
		if s.Final {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "    n%d [shape=%s];\n", s.ID, shape)
	}
	fmt.Fprintf(&b, "    _start -> n%d;\n", n.Start)
	for _, s := range n.States {
		syms := make([]rune, 0, len(s.Edges))
		for r := range s.Edges {
			syms = append(syms, r)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, r := range syms {
			for _, to := range s.Edges[r] {
				fmt.Fprintf(&b, "    n%d -> n%d [label=\"%s\"];\n", s.ID, to, dotEscape(string(r)))
			}
		}
		for _, to := range s.Epsilon {
			fmt.Fprintf(&b, "    n%d -> n%d [label=\"ε\", style=dashed];\n", s.ID, to)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var dotReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotEscape(s string) string { return dotReplacer.Replace(s) }
