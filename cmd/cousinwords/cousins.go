package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/japaniel/cousinwords/pkg/article"
	"github.com/japaniel/cousinwords/pkg/cousins"
	"github.com/japaniel/cousinwords/pkg/db"
	"github.com/japaniel/cousinwords/pkg/etymology"
	"github.com/japaniel/cousinwords/pkg/pipeline"
)

type cousinsCmd struct {
	DataConfig
	LogConfig

	Words []string `arg:"" optional:"" help:"Query words. Defaults to the common-word list."`

	ExcludeCommonStarts    bool     `env:"COUSINWORDS_EXCLUDE_COMMON_STARTS" help:"Drop cousins that start like the query word or with a common affix."`
	SharedPrefixLength     int      `default:"0" env:"COUSINWORDS_SHARED_PREFIX_LENGTH" help:"Drop cousins starting with the same characters as the query word, compared over this many (0 disables)."`
	SubwordExclusionLength int      `default:"0" env:"COUSINWORDS_SUBWORD_EXCLUSION_LENGTH" help:"Drop cousins sharing a substring of this length with the query word (0 disables)."`
	Language               string   `default:"eng" env:"COUSINWORDS_LANGUAGE" help:"Language code of query words and cousins."`
	MaxDepth               int      `default:"20" help:"Maximum descent depth when collecting leaf words."`
	ConflictPolicy         string   `default:"last" enum:"last,first,error" help:"What to do when a word is given two origins (last, first, error)."`
	StopAtAffix            bool     `help:"Stop root lookup before an affix origin."`
	Exclude                []string `help:"Extra tokens to drop from queries and results."`
	SkipAffixedQueries     bool     `default:"true" negatable:"" help:"Skip query words starting with a common affix."`
	Article                string   `help:"HTML file or URL whose words are used as queries."`
	Workers                int      `default:"1" env:"COUSINWORDS_WORKERS" help:"Query words scored in parallel."`
	DB                     string   `name:"db" env:"COUSINWORDS_DB" help:"SQLite file to record results in."`
}

// Run is the batch entry point: build the graph, then print every
// (word, cousin, distance) triple, farthest first.
func (c *cousinsCmd) Run(e *env) error {
	c.LogConfig.apply()
	ctx := e.ctx

	queries := c.Words
	data, err := c.load(ctx, true, len(queries) == 0 && c.Article == "")
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		queries = data.words
	}
	if c.Article != "" {
		client := &http.Client{Timeout: 30 * time.Second}
		words, err := article.QueryWords(ctx, client, c.Article, c.Language)
		if err != nil {
			return fmt.Errorf("reading article: %w", err)
		}
		slog.Info("extracted query words", "source", c.Article, "words", len(words))
		queries = append(queries, words...)
	}

	graph, err := buildGraph(e.stdout, data.records, c.ConflictPolicy)
	if err != nil {
		return err
	}

	finder, err := cousins.NewFinder(graph, cousins.Options{
		Language:   c.Language,
		MaxDepth:   c.MaxDepth,
		Exclusions: append(append([]string{}, cousins.KnownBadWords...), c.Exclude...),
		Filter: cousins.Filter{
			ExcludeCommonStarts: c.ExcludeCommonStarts,
			SharedPrefixLength:  c.SharedPrefixLength,
			SubwordLength:       c.SubwordExclusionLength,
		},
		Ancestors: etymology.AncestorOptions{StopAtAffix: c.StopAtAffix},
	})
	if err != nil {
		return err
	}
	defer finder.Close()

	runner := pipeline.NewRunner(finder, data.vectors)
	runner.Workers = c.Workers
	runner.SkipAffixed = c.SkipAffixedQueries
	runner.Exclude = append(append([]string{}, cousins.KnownBadWords...), c.Exclude...)
	runner.Logger = slog.Default()
	runner.ReportSkipped = len(c.Words) > 0
	runner.OnProgress = func(done, total int) {
		if done%1000 == 0 || done == total {
			slog.Debug("scoring", "done", done, "total", total)
		}
	}

	var runID int64
	if c.DB != "" {
		conn, err := db.Open(c.DB)
		if err != nil {
			return fmt.Errorf("opening results database: %w", err)
		}
		defer conn.Close()

		opts, _ := json.Marshal(c.runOptions())
		if runID, err = db.CreateRun(conn, c.Language, string(opts)); err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
		runner.Results = pipeline.NewResultWriter(conn, runID, c.Language, 500, time.Second)
		runner.Results.OnError = func(err error) {
			slog.Warn("writing results", "err", err, "run", runID)
		}
		defer func() {
			if err := db.FinishRun(conn, runID); err != nil {
				slog.Warn("finishing run", "err", err, "run", runID)
			}
		}()
	}

	triples, err := runner.Run(ctx, queries)
	if runner.Results != nil {
		if cerr := runner.Results.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("writing results: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	for _, t := range triples {
		fmt.Fprintf(e.stdout, "%s <-> %s - %v\n", t.Word, t.Related, t.Distance)
	}
	if runner.Results != nil {
		slog.Info("recorded run", "run", runID, "pairs", runner.Results.Written(), "path", c.DB)
	}
	return nil
}

// runOptions is the subset of flags stored with a recorded run.
func (c *cousinsCmd) runOptions() map[string]any {
	return map[string]any{
		"exclude_common_starts":    c.ExcludeCommonStarts,
		"shared_prefix_length":     c.SharedPrefixLength,
		"subword_exclusion_length": c.SubwordExclusionLength,
		"max_depth":                c.MaxDepth,
		"conflict_policy":          c.ConflictPolicy,
		"stop_at_affix":            c.StopAtAffix,
		"skip_affixed_queries":     c.SkipAffixedQueries,
		"exclude":                  c.Exclude,
		"article":                  c.Article,
	}
}
