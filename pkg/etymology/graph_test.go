package etymology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(lang, word, originLang, origin string) Record {
	return Record{Language: lang, Word: word, OriginLanguage: originLang, OriginWord: origin}
}

func mustLookup(t *testing.T, g *Graph, word, lang string) NodeID {
	t.Helper()
	id, ok := g.Lookup(word, lang)
	require.True(t, ok, "missing node %s (%s)", word, lang)
	return id
}

func TestBuildDeduplicatesNodes(t *testing.T) {
	g, err := Build([]Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "water", "lat", "aqua"),
	}, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len())
	aqua := mustLookup(t, g, "aqua", "lat")
	water := mustLookup(t, g, "water", "eng")
	// Repeated edges are kept.
	assert.Equal(t, []NodeID{water, water}, g.Node(aqua).Descendants)
	assert.Equal(t, aqua, g.Node(water).Origin)
}

func TestBuildKeysIncludeLanguage(t *testing.T) {
	g, err := Build([]Record{
		rec("eng", "pain", "fro", "peine"),
		rec("fra", "pain", "lat", "panis"),
	}, BuildOptions{})
	require.NoError(t, err)

	eng := mustLookup(t, g, "pain", "eng")
	fra := mustLookup(t, g, "pain", "fra")
	assert.NotEqual(t, eng, fra)
	assert.Equal(t, 4, g.Len())
}

func TestBuildLeafFlags(t *testing.T) {
	// B is seen first as a descendant, then gains a child.
	g, err := Build([]Record{
		rec("eng", "b", "eng", "a"),
		rec("eng", "c", "eng", "b"),
		rec("eng", "d", "eng", "b"),
	}, BuildOptions{})
	require.NoError(t, err)

	assert.False(t, g.Node(mustLookup(t, g, "a", "eng")).IsLeaf)
	assert.False(t, g.Node(mustLookup(t, g, "b", "eng")).IsLeaf)
	assert.True(t, g.Node(mustLookup(t, g, "c", "eng")).IsLeaf)
	assert.True(t, g.Node(mustLookup(t, g, "d", "eng")).IsLeaf)
}

func TestBuildOriginBeforeDescendant(t *testing.T) {
	// B is named as an origin before its own origin record appears.
	g, err := Build([]Record{
		rec("eng", "c", "eng", "b"),
		rec("eng", "b", "eng", "a"),
	}, BuildOptions{})
	require.NoError(t, err)

	assert.False(t, g.Node(mustLookup(t, g, "b", "eng")).IsLeaf)
}

func TestBuildStructuralConsistency(t *testing.T) {
	g, err := Build([]Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "aquarium", "lat", "aqua"),
		rec("lat", "aqua", "ine-pro", "akwa"),
		rec("eng", "water", "ang", "waeter"),
	}, BuildOptions{})
	require.NoError(t, err)

	for _, id := range g.IDs() {
		n := g.Node(id)
		if !n.HasOrigin() {
			continue
		}
		assert.Contains(t, g.Node(n.Origin).Descendants, id, "%s not among its origin's descendants", n.Word)
	}
}

func TestBuildConflictPolicies(t *testing.T) {
	records := []Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "water", "ang", "waeter"),
	}

	t.Run("last", func(t *testing.T) {
		g, err := Build(records, BuildOptions{Policy: LastWins})
		require.NoError(t, err)
		water := mustLookup(t, g, "water", "eng")
		assert.Equal(t, mustLookup(t, g, "waeter", "ang"), g.Node(water).Origin)
		// The overwritten origin still lists the word.
		assert.Contains(t, g.Node(mustLookup(t, g, "aqua", "lat")).Descendants, water)
	})

	t.Run("first", func(t *testing.T) {
		g, err := Build(records, BuildOptions{Policy: FirstWins})
		require.NoError(t, err)
		water := mustLookup(t, g, "water", "eng")
		assert.Equal(t, mustLookup(t, g, "aqua", "lat"), g.Node(water).Origin)
		_, ok := g.Lookup("waeter", "ang")
		assert.False(t, ok)
	})

	t.Run("error", func(t *testing.T) {
		_, err := Build(records, BuildOptions{Policy: ErrorOnConflict})
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, 1, conflict.Index)
		assert.Equal(t, Key{Word: "aqua", Language: "lat"}, conflict.Existing)
	})

	t.Run("same origin is not a conflict", func(t *testing.T) {
		_, err := Build([]Record{records[0], records[0]}, BuildOptions{Policy: ErrorOnConflict})
		assert.NoError(t, err)
	})
}

func TestParseConflictPolicy(t *testing.T) {
	p, err := ParseConflictPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LastWins, p)

	p, err = ParseConflictPolicy("first")
	require.NoError(t, err)
	assert.Equal(t, FirstWins, p)

	_, err = ParseConflictPolicy("random")
	assert.Error(t, err)
}

func TestBuildIsDeterministic(t *testing.T) {
	records := []Record{
		rec("eng", "b", "eng", "a"),
		rec("eng", "c", "eng", "b"),
		rec("eng", "d", "eng", "b"),
		rec("eng", "water", "lat", "aqua"),
	}
	g1, err := Build(records, BuildOptions{})
	require.NoError(t, err)
	g2, err := Build(records, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, g1.nodes, g2.nodes)
	assert.Equal(t, g1.index, g2.index)
}

func TestBuildProgress(t *testing.T) {
	var records []Record
	for i := 0; i < 100; i++ {
		records = append(records, rec("eng", string(rune('a'+i%26))+"x", "lat", "root"))
	}

	var got []int
	_, err := Build(records, BuildOptions{OnProgress: func(p int) { got = append(got, p) }})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, got)
}

func TestBuildProgressSmallInput(t *testing.T) {
	var got []int
	_, err := Build([]Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "aquarium", "lat", "aqua"),
		rec("eng", "aqueduct", "lat", "aqua"),
	}, BuildOptions{OnProgress: func(p int) { got = append(got, p) }})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 33, 67}, got)

	g, err := Build(nil, BuildOptions{OnProgress: func(int) { t.Fatal("unexpected progress") }})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestBuildSelfLoop(t *testing.T) {
	g, err := Build([]Record{rec("eng", "echo", "eng", "echo")}, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())

	id := mustLookup(t, g, "echo", "eng")
	assert.Equal(t, id, g.Node(id).Origin)
	assert.False(t, g.Node(id).IsLeaf)
}
