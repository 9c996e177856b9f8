package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/alecthomas/kong"
)

// cli contains our command-line flags.
type cli struct {
	Cousins cousinsCmd `cmd:"" default:"withargs" help:"Find cousin words and rank them by embedding distance."`
	Origin  originCmd  `cmd:"" help:"Print the ancestor chain of a word."`
	Tree    treeCmd    `cmd:"" help:"Print the etymology tree containing a word."`
	Fetch   fetchCmd   `cmd:"" help:"Download any missing dataset."`
}

// env is bound into every command's Run.
type env struct {
	ctx    context.Context
	stdout io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kctx := kong.Parse(&cli{},
		kong.Name("cousinwords"),
		kong.Description("Find words that share a distant etymological root."),
	)
	err := kctx.Run(&env{ctx: ctx, stdout: os.Stdout})
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func init() {
	// Vectors and the graph dominate memory; stay under 90% of what's available.
	_, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(0.9),
		memlimit.WithLogger(slog.Default()),
		memlimit.WithProvider(
			memlimit.ApplyFallback(
				memlimit.FromCgroup,
				memlimit.FromSystem,
			),
		),
	)
	if err != nil {
		panic(err)
	}
}
