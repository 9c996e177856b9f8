// Package cousins finds words that share a root ancestor with a query word
// without being on its line of descent.
package cousins

import (
	"fmt"
	"sort"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/japaniel/cousinwords/pkg/etymology"
)

// Options configures a Finder.
type Options struct {
	Language string
	MaxDepth int
	// Exclusions are removed from every result.
	Exclusions []string
	Filter     Filter
	Ancestors  etymology.AncestorOptions
	// CacheEntries bounds the number of root subtrees kept in memory.
	CacheEntries int64
}

// Finder answers cousin queries against a built graph. It is safe for
// concurrent use; the graph must not change afterwards.
type Finder struct {
	graph   *etymology.Graph
	opts    Options
	exclude map[string]struct{}
	// subtrees caches LeafDescendants of root nodes, keyed by node id.
	subtrees *ristretto.Cache[int64, map[string]struct{}]
}

// NewFinder creates a Finder over g.
func NewFinder(g *etymology.Graph, opts Options) (*Finder, error) {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = etymology.DefaultMaxDepth
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 1 << 16
	}

	subtrees, err := ristretto.NewCache(&ristretto.Config[int64, map[string]struct{}]{
		NumCounters: opts.CacheEntries * 10,
		MaxCost:     opts.CacheEntries,
		BufferItems: 64,
		// Cost counts entries, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating subtree cache: %w", err)
	}

	exclude := make(map[string]struct{}, len(opts.Exclusions))
	for _, w := range opts.Exclusions {
		exclude[w] = struct{}{}
	}

	return &Finder{
		graph:    g,
		opts:     opts,
		exclude:  exclude,
		subtrees: subtrees,
	}, nil
}

// Close releases the subtree cache.
func (f *Finder) Close() {
	f.subtrees.Close()
}

// Language is the language candidates are drawn from.
func (f *Finder) Language() string { return f.opts.Language }

// Find returns the sorted cousin words of word. It returns
// etymology.ErrUnknownWord when the word has no node in the finder's language.
func (f *Finder) Find(word string) ([]string, error) {
	id, ok := f.graph.Lookup(word, f.opts.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", etymology.ErrUnknownWord, word, f.opts.Language)
	}

	chain := f.graph.AncestorsWith(id, f.opts.Ancestors)
	root := chain[len(chain)-1]

	related := f.rootSubtree(root)
	own := f.graph.LeafDescendants(id, f.opts.Language, f.opts.MaxDepth)
	lineage := f.graph.Words(chain)

	var out []string
	for w := range related {
		if _, ok := own[w]; ok {
			continue
		}
		if _, ok := lineage[w]; ok {
			continue
		}
		if _, ok := f.exclude[w]; ok {
			continue
		}
		if !f.opts.Filter.Keep(word, w) {
			continue
		}
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}

func (f *Finder) rootSubtree(root etymology.NodeID) map[string]struct{} {
	key := int64(root)
	if words, ok := f.subtrees.Get(key); ok {
		return words
	}
	words := f.graph.LeafDescendants(root, f.opts.Language, f.opts.MaxDepth)
	f.subtrees.Set(key, words, 1)
	return words
}
