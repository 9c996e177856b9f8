package etymology

import "strings"

// DefaultMaxDepth bounds descendant walks.
const DefaultMaxDepth = 20

// AncestorOptions tunes upward walks.
type AncestorOptions struct {
	// StopAtAffix ends the chain before an origin whose word ends in '-'
	// (a bound prefix such as "re-"), so affixes never become roots.
	StopAtAffix bool
}

// Ancestors returns the chain from id up to its root, both inclusive.
func (g *Graph) Ancestors(id NodeID) []NodeID {
	return g.AncestorsWith(id, AncestorOptions{})
}

// AncestorsWith follows origin links from id. The walk stops at the first
// node without an origin or at the first node already on the chain, so
// cyclic data still terminates.
func (g *Graph) AncestorsWith(id NodeID, opts AncestorOptions) []NodeID {
	chain := []NodeID{id}
	seen := map[NodeID]struct{}{id: {}}

	for cur := id; ; {
		next := g.nodes[cur].Origin
		if next == NoNode {
			break
		}
		if _, ok := seen[next]; ok {
			break
		}
		if opts.StopAtAffix && strings.HasSuffix(g.nodes[next].Word, "-") {
			break
		}
		seen[next] = struct{}{}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

// Root returns the last node of id's ancestor chain.
func (g *Graph) Root(id NodeID) NodeID {
	return g.RootWith(id, AncestorOptions{})
}

// RootWith is Root with options.
func (g *Graph) RootWith(id NodeID, opts AncestorOptions) NodeID {
	chain := g.AncestorsWith(id, opts)
	return chain[len(chain)-1]
}

// LeafDescendants collects the words of leaf nodes in language reachable
// below id. The start node itself is never included. Nodes at maxDepth
// levels or more below id are skipped.
func (g *Graph) LeafDescendants(id NodeID, language string, maxDepth int) map[string]struct{} {
	words := make(map[string]struct{})
	if maxDepth <= 0 {
		return words
	}

	type item struct {
		id    NodeID
		depth int
	}
	// Breadth first so every node is first seen at its shallowest depth.
	queue := []item{{id: id}}
	seen := map[NodeID]struct{}{id: {}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		n := &g.nodes[cur.id]
		if cur.id != id && n.IsLeaf && n.Language == language {
			words[n.Word] = struct{}{}
		}
		if cur.depth+1 >= maxDepth {
			continue
		}
		for _, d := range n.Descendants {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			queue = append(queue, item{id: d, depth: cur.depth + 1})
		}
	}
	return words
}

// Words returns the word of every node in ids.
func (g *Graph) Words(ids []NodeID) map[string]struct{} {
	words := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		words[g.nodes[id].Word] = struct{}{}
	}
	return words
}
