// Package pipeline scores cousin words for a list of query words, spreading
// the work over a worker pool and optionally persisting the results.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/japaniel/cousinwords/pkg/cousins"
	"github.com/japaniel/cousinwords/pkg/db"
	"github.com/japaniel/cousinwords/pkg/etymology"
)

// Finder returns the cousin words of a query word.
type Finder interface {
	Find(word string) ([]string, error)
}

// Embeddings measures the distance between two words. ok is false when
// either word has no vector.
type Embeddings interface {
	Distance(a, b string) (float64, bool)
}

// Triple is a query word, one of its cousins and their embedding distance.
type Triple struct {
	Word     string
	Related  string
	Distance float64
}

// Runner scores query words.
type Runner struct {
	Finder     Finder
	Embeddings Embeddings
	// Workers defaults to 1, which processes words strictly one at a time.
	Workers int
	// SkipAffixed skips query words starting with a common affix.
	SkipAffixed bool
	// Exclude lists query words to skip.
	Exclude []string
	// Results receives every triple when set.
	Results *ResultWriter
	// Logger is used for informational messages. nil means no logging.
	Logger *slog.Logger
	// ReportSkipped logs skipped query words at info instead of debug, for
	// short explicit query lists.
	ReportSkipped bool
	// OnProgress is called after each query word with the number done and the total.
	OnProgress func(done, total int)
}

// NewRunner creates a Runner with the reference defaults.
func NewRunner(f Finder, e Embeddings) *Runner {
	return &Runner{
		Finder:      f,
		Embeddings:  e,
		Workers:     1,
		SkipAffixed: true,
	}
}

// Run scores every query word and returns the triples sorted by distance,
// farthest first. Unknown words and words without vectors are skipped.
func (r *Runner) Run(ctx context.Context, words []string) ([]Triple, error) {
	queries := r.queries(words)
	total := len(queries)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp := NewWorkerPool(r.Workers, r.Workers*2)
	wp.Start(ctx)

	var (
		mu      sync.Mutex
		triples []Triple
		done    atomic.Int64
	)

	for _, word := range queries {
		job := func(ctx context.Context) error {
			found, err := r.score(word)
			if err != nil {
				cancel()
				return err
			}
			if r.Results != nil && len(found) > 0 {
				pairs := make([]db.Pair, len(found))
				for i, t := range found {
					pairs[i] = db.Pair{Word: t.Word, Related: t.Related, Distance: t.Distance}
				}
				if err := r.Results.Submit(pairs...); err != nil {
					cancel()
					return err
				}
			}

			mu.Lock()
			triples = append(triples, found...)
			mu.Unlock()

			n := done.Add(1)
			if r.OnProgress != nil {
				r.OnProgress(int(n), total)
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			break
		}
	}

	jobErr := wp.Close()
	if jobErr != nil {
		return nil, jobErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	SortTriples(triples)
	return triples, nil
}

func (r *Runner) queries(words []string) []string {
	skip := make(map[string]struct{}, len(r.Exclude))
	for _, w := range r.Exclude {
		skip[w] = struct{}{}
	}

	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := skip[w]; ok {
			continue
		}
		if r.SkipAffixed && cousins.HasCommonAffix(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (r *Runner) score(word string) ([]Triple, error) {
	// Words without a vector cannot be scored, so skip the graph lookup entirely.
	if _, ok := r.Embeddings.Distance(word, word); !ok {
		r.skipped(word, "no embedding vector")
		return nil, nil
	}

	related, err := r.Finder.Find(word)
	if errors.Is(err, etymology.ErrUnknownWord) {
		r.skipped(word, "unknown word/language")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Triple
	for _, rel := range related {
		d, ok := r.Embeddings.Distance(word, rel)
		if !ok {
			continue
		}
		out = append(out, Triple{Word: word, Related: rel, Distance: d})
	}
	return out, nil
}

func (r *Runner) skipped(word, reason string) {
	if r.Logger == nil {
		return
	}
	level := slog.LevelDebug
	if r.ReportSkipped {
		level = slog.LevelInfo
	}
	r.Logger.Log(context.Background(), level, reason, "word", word)
}

// SortTriples orders triples by distance descending, then word, then related word.
func SortTriples(ts []Triple) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Distance != ts[j].Distance {
			return ts[i].Distance > ts[j].Distance
		}
		if ts[i].Word != ts[j].Word {
			return ts[i].Word < ts[j].Word
		}
		return ts[i].Related < ts[j].Related
	})
}
