// Package etymology builds a forest of word origins from etymology records and
// walks it upward (ancestor chains) and downward (descendant sets).
package etymology

import "errors"

// NodeID addresses a node inside a Graph's arena.
type NodeID int32

// NoNode marks a missing origin.
const NoNode NodeID = -1

// ErrUnknownWord is returned when a (word, language) pair has no node.
var ErrUnknownWord = errors.New("unknown word/language")

// Key identifies a node by word and language.
type Key struct {
	Word     string
	Language string
}

// Node is one (word, language) pair seen anywhere in the records.
type Node struct {
	Word     string
	Language string
	// IsLeaf is true while no record has named this node as an origin.
	IsLeaf bool
	// Descendants may hold the same child more than once when an edge repeats.
	Descendants []NodeID
	Origin      NodeID
}

// HasOrigin reports whether an origin was recorded for the node.
func (n *Node) HasOrigin() bool { return n.Origin != NoNode }

// Graph owns every node. Nodes are stored in first-creation order and
// referenced by NodeID; index maps each Key to its single node.
type Graph struct {
	nodes []Node
	index map[Key]NodeID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[Key]NodeID)}
}

// Len returns the number of distinct (word, language) pairs.
func (g *Graph) Len() int { return len(g.nodes) }

// Lookup returns the node id for word in language.
func (g *Graph) Lookup(word, language string) (NodeID, bool) {
	id, ok := g.index[Key{Word: word, Language: language}]
	return id, ok
}

// Node returns the node stored at id. The pointer stays valid until the graph grows.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// IDs returns every node id in first-creation order.
func (g *Graph) IDs() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range ids {
		ids[i] = NodeID(i)
	}
	return ids
}

// obtain returns the node for key, creating it with the given leaf flag when absent.
func (g *Graph) obtain(key Key, leaf bool) (NodeID, bool) {
	if id, ok := g.index[key]; ok {
		return id, false
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		Word:     key.Word,
		Language: key.Language,
		IsLeaf:   leaf,
		Origin:   NoNode,
	})
	g.index[key] = id
	return id, true
}
