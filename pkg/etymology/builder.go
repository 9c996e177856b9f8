package etymology

import (
	"fmt"
	"math"
)

// ConflictPolicy decides what happens when a word already has a different origin.
type ConflictPolicy string

const (
	// LastWins overwrites the earlier origin. The earlier origin keeps the
	// word in its descendants.
	LastWins ConflictPolicy = "last"
	// FirstWins ignores later records that name a different origin.
	FirstWins ConflictPolicy = "first"
	// ErrorOnConflict aborts the build with a *ConflictError.
	ErrorOnConflict ConflictPolicy = "error"
)

// ParseConflictPolicy validates a policy name.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(s); p {
	case LastWins, FirstWins, ErrorOnConflict:
		return p, nil
	case "":
		return LastWins, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q", s)
	}
}

// ConflictError reports a word claimed to derive from two different origins.
type ConflictError struct {
	Index    int
	Record   Record
	Existing Key
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("record %d: %s (%s) derives from %s (%s) but already has origin %s (%s)",
		e.Index, e.Record.Word, e.Record.Language, e.Record.OriginWord, e.Record.OriginLanguage,
		e.Existing.Word, e.Existing.Language)
}

// BuildOptions tunes Build.
type BuildOptions struct {
	Policy ConflictPolicy
	// OnProgress is called with a percentage at every 10% boundary of the input.
	OnProgress func(percent int)
}

// Build creates a fresh graph from records, processed in order.
func Build(records []Record, opts BuildOptions) (*Graph, error) {
	policy := opts.Policy
	if policy == "" {
		policy = LastWins
	}

	g := NewGraph()
	step := len(records) / 10
	if step == 0 {
		step = 1
	}

	for i, r := range records {
		if opts.OnProgress != nil && i%step == 0 {
			opts.OnProgress(int(math.Round(float64(i) / float64(len(records)) * 100)))
		}
		if err := g.add(i, r, policy); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) add(index int, r Record, policy ConflictPolicy) error {
	wordKey := Key{Word: r.Word, Language: r.Language}
	originKey := Key{Word: r.OriginWord, Language: r.OriginLanguage}

	if id, ok := g.index[wordKey]; ok && policy != LastWins {
		n := g.Node(id)
		if n.HasOrigin() {
			prev := g.Node(n.Origin)
			if prev.Word != originKey.Word || prev.Language != originKey.Language {
				if policy == FirstWins {
					return nil
				}
				return &ConflictError{
					Index:    index,
					Record:   r,
					Existing: Key{Word: prev.Word, Language: prev.Language},
				}
			}
		}
	}

	child, _ := g.obtain(wordKey, true)
	origin, _ := g.obtain(originKey, false)

	o := g.Node(origin)
	o.Descendants = append(o.Descendants, child)
	o.IsLeaf = false

	c := g.Node(child)
	c.Origin = origin
	// A descendant stays provisionally a leaf unless something already derives from it.
	c.IsLeaf = len(c.Descendants) == 0
	return nil
}
