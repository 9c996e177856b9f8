package etymology

import (
	"fmt"
	"io"
	"strings"
)

// Describe renders a node as "lang: word", optionally with its descendant count.
func (g *Graph) Describe(id NodeID, withCounts bool) string {
	n := &g.nodes[id]
	s := n.Language + ": " + n.Word
	if withCounts {
		s += fmt.Sprintf(", %d descendant(s)", len(n.Descendants))
	}
	return s
}

// WriteOrigin prints the ancestor chain of id, one level of indent per step.
func (g *Graph) WriteOrigin(w io.Writer, id NodeID, withCounts bool) error {
	for depth, a := range g.Ancestors(id) {
		if _, err := fmt.Fprintln(w, strings.Repeat("  ", depth)+g.Describe(a, withCounts)); err != nil {
			return err
		}
	}
	return nil
}

// WriteOriginInfo prints the direct origin of id, or "No origin".
func (g *Graph) WriteOriginInfo(w io.Writer, id NodeID) error {
	n := &g.nodes[id]
	if !n.HasOrigin() {
		_, err := fmt.Fprintln(w, "No origin")
		return err
	}
	_, err := fmt.Fprintf(w, "Origin: %s\n", g.Describe(n.Origin, true))
	return err
}

// WriteTree prints id and its descendants depth first, down to maxDepth levels.
func (g *Graph) WriteTree(w io.Writer, id NodeID, maxDepth int, withCounts bool) error {
	if maxDepth <= 0 {
		return nil
	}

	type frame struct {
		id    NodeID
		depth int
	}
	stack := []frame{{id: id}}
	seen := map[NodeID]struct{}{id: {}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, err := fmt.Fprintln(w, strings.Repeat("  ", cur.depth)+g.Describe(cur.id, withCounts)); err != nil {
			return err
		}
		if cur.depth+1 >= maxDepth {
			continue
		}
		desc := g.nodes[cur.id].Descendants
		// Push in reverse so children print in insertion order.
		for i := len(desc) - 1; i >= 0; i-- {
			d := desc[i]
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			stack = append(stack, frame{id: d, depth: cur.depth + 1})
		}
	}
	return nil
}
