package cousins

import (
	"errors"
	"testing"

	"github.com/japaniel/cousinwords/pkg/etymology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(lang, word, originLang, origin string) etymology.Record {
	return etymology.Record{Language: lang, Word: word, OriginLanguage: originLang, OriginWord: origin}
}

func newFinder(t *testing.T, records []etymology.Record, opts Options) *Finder {
	t.Helper()
	g, err := etymology.Build(records, etymology.BuildOptions{})
	require.NoError(t, err)
	f, err := NewFinder(g, opts)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

var aquaRecords = []etymology.Record{
	rec("eng", "water", "lat", "aqua"),
	rec("eng", "aquarium", "lat", "aqua"),
}

func TestFindCousins(t *testing.T) {
	f := newFinder(t, aquaRecords, Options{})

	got, err := f.Find("water")
	require.NoError(t, err)
	assert.Equal(t, []string{"aquarium"}, got)

	// Repeated queries hit the cached subtree.
	got, err = f.Find("aquarium")
	require.NoError(t, err)
	assert.Equal(t, []string{"water"}, got)
}

func TestFindUnknownWord(t *testing.T) {
	f := newFinder(t, aquaRecords, Options{})

	_, err := f.Find("fire")
	assert.True(t, errors.Is(err, etymology.ErrUnknownWord))

	// Words only exist in their own language.
	_, err = f.Find("aqua")
	assert.True(t, errors.Is(err, etymology.ErrUnknownWord))
}

func TestFindExcludesLineage(t *testing.T) {
	// root -> mid -> {leafa, leafb}, root -> other
	f := newFinder(t, []etymology.Record{
		rec("eng", "mid", "lat", "root"),
		rec("eng", "leafa", "eng", "mid"),
		rec("eng", "leafb", "eng", "mid"),
		rec("eng", "other", "lat", "root"),
	}, Options{})

	got, err := f.Find("leafa")
	require.NoError(t, err)
	assert.Equal(t, []string{"leafb", "other"}, got)

	// Own descendants are not cousins.
	got, err = f.Find("mid")
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, got)
}

func TestFindFromRoot(t *testing.T) {
	f := newFinder(t, []etymology.Record{
		rec("eng", "kin", "eng", "cyn"),
		rec("eng", "kind", "eng", "cyn"),
		rec("eng", "kindred", "eng", "kin"),
	}, Options{})

	// cyn is a root; its cousins are its own subtree minus itself and its
	// descendants, which leaves nothing.
	got, err := f.Find("cyn")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.Find("kindred")
	require.NoError(t, err)
	assert.Equal(t, []string{"kind"}, got)
}

func TestFindExclusions(t *testing.T) {
	f := newFinder(t, []etymology.Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "aquarium", "lat", "aqua"),
		rec("eng", "olivia", "lat", "aqua"),
	}, Options{Exclusions: KnownBadWords})

	got, err := f.Find("water")
	require.NoError(t, err)
	assert.Equal(t, []string{"aquarium"}, got)
}

func TestFindFilters(t *testing.T) {
	records := []etymology.Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "wave", "lat", "aqua"),
		rec("eng", "rewater", "lat", "aqua"),
		rec("eng", "later", "lat", "aqua"),
		rec("eng", "brook", "lat", "aqua"),
	}

	f := newFinder(t, records, Options{Filter: Filter{ExcludeCommonStarts: true}})
	got, err := f.Find("water")
	require.NoError(t, err)
	assert.Equal(t, []string{"brook", "later"}, got)

	f = newFinder(t, records, Options{Filter: Filter{SubwordLength: 3}})
	got, err = f.Find("water")
	require.NoError(t, err)
	assert.Equal(t, []string{"brook", "wave"}, got)
}

func TestFilterHelpers(t *testing.T) {
	assert.True(t, HasCommonAffix("undo"))
	assert.True(t, HasCommonAffix("nonsense"))
	assert.False(t, HasCommonAffix("water"))

	assert.True(t, SharesSubword("water", "slate", 3))
	assert.False(t, SharesSubword("water", "slate", 4))
	assert.False(t, SharesSubword("water", "water", 0))
	assert.False(t, SharesSubword("water", "at", 3))

	f := Filter{}
	assert.True(t, f.Keep("water", "wave"))
}

func TestFilterComparesCharacters(t *testing.T) {
	f := Filter{ExcludeCommonStarts: true}
	// Both start with the byte 0xC3 but with different letters.
	assert.True(t, f.Keep("été", "èze"))
	assert.False(t, f.Keep("été", "étoile"))

	assert.True(t, SharesSubword("idée", "dée", 3))
	assert.False(t, SharesSubword("idée", "éxx", 2))
	assert.True(t, SharesSubword("café", "xé", 1))
}

func TestFilterSharedPrefix(t *testing.T) {
	f := Filter{SharedPrefixLength: 3}
	assert.False(t, f.Keep("water", "watt"))
	assert.True(t, f.Keep("water", "wave"))
	assert.False(t, f.Keep("été", "étés"))
	assert.True(t, f.Keep("été", "étoile"))
	// Shorter words compare in full.
	assert.False(t, f.Keep("at", "at"))
	assert.True(t, f.Keep("at", "atom"))

	assert.True(t, Filter{}.Keep("water", "watt"))
}

func TestFindSharedPrefixOnly(t *testing.T) {
	records := []etymology.Record{
		rec("eng", "water", "lat", "aqua"),
		rec("eng", "watt", "lat", "aqua"),
		rec("eng", "wave", "lat", "aqua"),
		rec("eng", "brook", "lat", "aqua"),
	}

	f := newFinder(t, records, Options{Filter: Filter{SharedPrefixLength: 3}})
	got, err := f.Find("water")
	require.NoError(t, err)
	assert.Equal(t, []string{"brook", "wave"}, got)
}
