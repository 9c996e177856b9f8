package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/japaniel/cousinwords/pkg/corpus"
	"github.com/japaniel/cousinwords/pkg/etymology"
	"golang.org/x/sync/errgroup"
)

// DataConfig locates the input datasets.
type DataConfig struct {
	WordList     string `default:"100_000-english.txt" env:"COUSINWORDS_WORD_LIST" help:"Newline-delimited common-word list."`
	Etymology    string `default:"etymwn.tsv" env:"COUSINWORDS_ETYMOLOGY" help:"Tab-delimited etymology records."`
	Vectors      string `default:"glove.6B.50d.txt" env:"COUSINWORDS_VECTORS" help:"Whitespace-delimited embedding vectors."`
	WordListURL  string `env:"COUSINWORDS_WORD_LIST_URL" help:"Download URL for the common-word list."`
	EtymologyURL string `default:"http://etym.org/etymwn-20130208.zip" env:"COUSINWORDS_ETYMOLOGY_URL" help:"Download URL for the etymology records."`
	VectorsURL   string `default:"https://nlp.stanford.edu/data/glove.6B.zip" env:"COUSINWORDS_VECTORS_URL" help:"Download URL for the embedding vectors."`

	Download bool `env:"COUSINWORDS_DOWNLOAD" help:"Download missing datasets before loading them."`
}

// dataset pairs a local path with its download URL.
type dataset struct {
	path, url string
}

func (c *DataConfig) datasets() []dataset {
	return []dataset{
		{c.WordList, c.WordListURL},
		{c.Etymology, c.EtymologyURL},
		{c.Vectors, c.VectorsURL},
	}
}

// ensure downloads the named datasets that are missing. Failures are joined.
func (c *DataConfig) ensure(ctx context.Context, paths ...string) error {
	d := corpus.NewDownloader(slog.Default())
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}

	var err error
	for _, ds := range c.datasets() {
		if !want[ds.path] {
			continue
		}
		err = errors.Join(err, d.Ensure(ctx, ds.path, ds.url))
	}
	return err
}

// loaded holds everything read from disk for a run.
type loaded struct {
	records []etymology.Record
	vectors corpus.Vectors
	words   []string
}

// load reads the etymology records and, when asked, the vectors and word
// list, concurrently.
func (c *DataConfig) load(ctx context.Context, withVectors, withWords bool) (*loaded, error) {
	paths := []string{c.Etymology}
	if withVectors {
		paths = append(paths, c.Vectors)
	}
	if withWords {
		paths = append(paths, c.WordList)
	}
	if c.Download {
		if err := c.ensure(ctx, paths...); err != nil {
			return nil, err
		}
	}

	var out loaded
	var g errgroup.Group

	g.Go(func() error {
		start := time.Now()
		records, err := etymology.LoadRecords(c.Etymology)
		if err != nil {
			return fmt.Errorf("loading etymologies: %w", err)
		}
		slog.Debug("loaded etymologies", "path", c.Etymology, "records", len(records), "took", time.Since(start))
		out.records = records
		return nil
	})

	if withVectors {
		g.Go(func() error {
			start := time.Now()
			vectors, err := corpus.LoadVectors(c.Vectors)
			if err != nil {
				return fmt.Errorf("loading vectors: %w", err)
			}
			slog.Debug("loaded vectors", "path", c.Vectors, "words", len(vectors), "took", time.Since(start))
			out.vectors = vectors
			return nil
		})
	}

	if withWords {
		g.Go(func() error {
			words, err := corpus.LoadWordList(c.WordList)
			if err != nil {
				return fmt.Errorf("loading word list: %w", err)
			}
			slog.Debug("loaded word list", "path", c.WordList, "words", len(words))
			out.words = words
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// buildGraph builds the etymology graph, printing progress to out.
func buildGraph(out io.Writer, records []etymology.Record, policy string) (*etymology.Graph, error) {
	p, err := etymology.ParseConflictPolicy(policy)
	if err != nil {
		return nil, err
	}
	g, err := etymology.Build(records, etymology.BuildOptions{
		Policy: p,
		OnProgress: func(percent int) {
			fmt.Fprintf(out, "Building graph... %d%%\n", percent)
		},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(out, "Done.\n\n")
	slog.Debug("built graph", "nodes", g.Len())
	return g, nil
}
