package main

import (
	"fmt"

	"github.com/japaniel/cousinwords/pkg/etymology"
)

// lookupConfig is shared by the origin and tree commands.
type lookupConfig struct {
	Word           string `arg:"" help:"Word to look up."`
	Language       string `default:"eng" env:"COUSINWORDS_LANGUAGE" help:"Language code of the word."`
	ConflictPolicy string `default:"last" enum:"last,first,error" help:"What to do when a word is given two origins (last, first, error)."`
	Counts         bool   `help:"Show descendant counts."`
}

type originCmd struct {
	DataConfig
	LogConfig
	lookupConfig
}

// Run prints the word followed by each ancestor, one indent per generation.
func (c *originCmd) Run(e *env) error {
	c.LogConfig.apply()

	graph, err := c.graph(e, &c.DataConfig)
	if err != nil {
		return err
	}
	id, ok := graph.Lookup(c.Word, c.Language)
	if !ok {
		fmt.Fprintln(e.stdout, "Unknown word/language")
		return nil
	}

	return graph.WriteOrigin(e.stdout, id, c.Counts)
}

type treeCmd struct {
	DataConfig
	LogConfig
	lookupConfig

	MaxDepth int `default:"20" help:"Maximum depth to print."`
}

// Run prints the tree under the word's root.
func (c *treeCmd) Run(e *env) error {
	c.LogConfig.apply()

	graph, err := c.graph(e, &c.DataConfig)
	if err != nil {
		return err
	}
	id, ok := graph.Lookup(c.Word, c.Language)
	if !ok {
		fmt.Fprintln(e.stdout, "Unknown word/language")
		return nil
	}

	if err := graph.WriteOriginInfo(e.stdout, id); err != nil {
		return err
	}
	return graph.WriteTree(e.stdout, graph.Root(id), c.MaxDepth, c.Counts)
}

func (c *lookupConfig) graph(e *env, data *DataConfig) (*etymology.Graph, error) {
	loaded, err := data.load(e.ctx, false, false)
	if err != nil {
		return nil, err
	}
	return buildGraph(e.stdout, loaded.records, c.ConflictPolicy)
}
