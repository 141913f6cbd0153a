// Package inspect renders compiled pattern trees for humans and tools.
//
// The engine's syntax tree is its whole execution model, so seeing the
// tree is seeing the matcher. This package flattens a syntax.Node into
// a serializable form and writes it as indented JSON or as Graphviz
// DOT text. Rendering is read-only; nodes are never modified.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/coregx/backrex/syntax"
)

// TreeNode is one node of the flattened tree. IDs are preorder
// ordinals ("n0", "n1", ...), stable for a given tree shape, so two
// runs over the same pattern produce byte-identical output. Children
// is non-nil even for leaves so the JSON always carries an array.
type TreeNode struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Detail   string      `json:"detail,omitempty"`
	Children []*TreeNode `json:"children"`
}

// Tree flattens root into TreeNodes, preorder.
func Tree(root syntax.Node) *TreeNode {
	counter := 0
	return build(root, &counter)
}

func build(n syntax.Node, counter *int) *TreeNode {
	t := &TreeNode{
		ID:       fmt.Sprintf("n%d", *counter),
		Type:     n.Kind().String(),
		Detail:   detail(n),
		Children: []*TreeNode{},
	}
	*counter++
	for _, child := range n.Children() {
		t.Children = append(t.Children, build(child, counter))
	}
	return t
}

// WriteJSON writes the tree for root to w as indented JSON, with a
// trailing newline.
func WriteJSON(w io.Writer, root syntax.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Tree(root))
}

// WriteDOT writes the tree for root to w as a Graphviz digraph. Node
// names match the IDs Tree assigns, so the two views line up.
func WriteDOT(w io.Writer, root syntax.Node) error {
	var sb strings.Builder
	sb.WriteString("digraph ast {\n")
	sb.WriteString("\tnode [shape=box, fontname=\"monospace\"];\n")
	counter := 0
	writeDOTNode(&sb, root, &counter)
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeDOTNode(sb *strings.Builder, n syntax.Node, counter *int) {
	id := *counter
	*counter++
	label := n.Kind().String()
	if d := detail(n); d != "" {
		label += " " + d
	}
	fmt.Fprintf(sb, "\tn%d [label=%q];\n", id, label)
	for _, child := range n.Children() {
		// The child is assigned the next free ordinal, which is
		// exactly the counter value at this point.
		fmt.Fprintf(sb, "\tn%d -> n%d;\n", id, *counter)
		writeDOTNode(sb, child, counter)
	}
}

// detail returns the per-variant payload worth showing: the literal
// character, the class spelling with its characters sorted, or the
// polarity of a lookaround. Structural nodes have none.
func detail(n syntax.Node) string {
	switch v := n.(type) {
	case *syntax.Literal:
		return string(v.Char)
	case *syntax.CharClass:
		return classDetail(v)
	case *syntax.Lookahead:
		return polarity(v.Positive)
	case *syntax.Lookbehind:
		return polarity(v.Positive)
	}
	return ""
}

func polarity(positive bool) string {
	if positive {
		return "positive"
	}
	return "negative"
}

func classDetail(c *syntax.CharClass) string {
	chars := make([]rune, 0, len(c.Chars))
	for r := range c.Chars {
		chars = append(chars, r)
	}
	slices.Sort(chars)

	var sb strings.Builder
	sb.WriteByte('[')
	if c.Negated {
		sb.WriteByte('^')
	}
	sb.WriteString(string(chars))
	sb.WriteByte(']')
	return sb.String()
}
