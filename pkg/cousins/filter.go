package cousins

import (
	"strings"
	"unicode/utf8"
)

// CommonAffixes are prefixes that mark a word as a derived form.
var CommonAffixes = []string{"re", "bi", "in", "un", "non"}

// KnownBadWords are tokens from the common-word list whose etymology entries
// are noise.
var KnownBadWords = []string{
	"gree", "leed", "copyboy", "midcap", "een", "poisonwood",
	"localhost", "morningtide", "seel", "mesic", "idée", "olivia",
}

// HasCommonAffix reports whether word starts with one of CommonAffixes.
func HasCommonAffix(word string) bool {
	for _, p := range CommonAffixes {
		if strings.HasPrefix(word, p) {
			return true
		}
	}
	return false
}

// SharesSubword reports whether any n-character substring of candidate occurs in word.
func SharesSubword(word, candidate string, n int) bool {
	if n <= 0 {
		return false
	}
	runes := []rune(candidate)
	for i := 0; i+n <= len(runes); i++ {
		if strings.Contains(word, string(runes[i:i+n])) {
			return true
		}
	}
	return false
}

// SharesPrefix reports whether word and candidate begin with the same n
// characters. Words shorter than n must match in full.
func SharesPrefix(word, candidate string, n int) bool {
	if n <= 0 {
		return false
	}
	return prefix(word, n) == prefix(candidate, n)
}

func prefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

func sameStart(a, b string) bool {
	ra, sa := utf8.DecodeRuneInString(a)
	rb, sb := utf8.DecodeRuneInString(b)
	return sa > 0 && sb > 0 && ra == rb
}

// Filter rejects candidates that look too similar to the query word.
type Filter struct {
	// ExcludeCommonStarts drops candidates starting with the query's first
	// letter or with a common affix.
	ExcludeCommonStarts bool
	// SharedPrefixLength drops candidates beginning with the same characters
	// as the query, compared over this many characters. Zero disables it.
	SharedPrefixLength int
	// SubwordLength drops candidates sharing a substring of this length with
	// the query. Zero disables it.
	SubwordLength int
}

// Keep reports whether candidate survives the filter for word.
func (f Filter) Keep(word, candidate string) bool {
	if f.ExcludeCommonStarts && (sameStart(word, candidate) || HasCommonAffix(candidate)) {
		return false
	}
	if SharesPrefix(word, candidate, f.SharedPrefixLength) {
		return false
	}
	return !SharesSubword(word, candidate, f.SubwordLength)
}
