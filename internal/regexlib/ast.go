package regexlib

import (
	"strconv"
	"strings"
	"unicode"
)

// NodeKind tags the variant held by a Node.
type NodeKind int

const (
	NodeEmpty NodeKind = iota // ε: the empty pattern and any term with no factors, as in "|a" or "()"
	NodeSymbol
	NodeConcat
	NodeUnion
	NodeStar
	NodePlus
)

func (k NodeKind) String() string {
	switch k {
	case NodeEmpty:
		return "empty"
	case NodeSymbol:
		return "symbol"
	case NodeConcat:
		return "concat"
	case NodeUnion:
		return "union"
	case NodeStar:
		return "star"
	case NodePlus:
		return "plus"
	}
	return "unknown"
}

// Node is one vertex of the pattern syntax tree.
//
// Concat and Union always hold at least two children; Star and Plus hold
// exactly one. A list with a single element is never wrapped.
type Node struct {
	Kind     NodeKind
	Char     rune // NodeSymbol
	Children []*Node
}

func symbolNode(r rune) *Node { return &Node{Kind: NodeSymbol, Char: r} }

// listNode collapses a singleton list to its only element.
func listNode(kind NodeKind, items []*Node) *Node {
	if len(items) == 1 {
		return items[0]
	}
	return &Node{Kind: kind, Children: items}
}

// String renders the tree as an s-expression, e.g. (concat (star a) b).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Kind {
	case NodeEmpty:
		b.WriteString("ε")
	case NodeSymbol:
		b.WriteString(quoteSymbol(n.Char))
	default:
		b.WriteByte('(')
		b.WriteString(n.Kind.String())
		for _, c := range n.Children {
			b.WriteByte(' ')
			c.write(b)
		}
		b.WriteByte(')')
	}
}

// quoteSymbol keeps plain symbols readable and quotes the rest.
func quoteSymbol(r rune) string {
	switch r {
	case '(', ')', '|', '*', '+', '"', '\\':
		return strconv.Quote(string(r))
	}
	if !unicode.IsGraphic(r) || unicode.IsSpace(r) {
		return strconv.Quote(string(r))
	}
	return string(r)
}
