package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

var _logHandler *charm.Logger

// set up our default log handler and formatting. Logs go to stderr; stdout
// is reserved for progress and results.
func init() {
	styles := charm.DefaultStyles()
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	styles.Keys["word"] = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styles.Values["path"] = lipgloss.NewStyle().Faint(true)

	_logHandler = charm.NewWithOptions(os.Stderr, charm.Options{
		ReportTimestamp: true,
		TimeFormat:      time.StampMilli,
		Level:           charm.InfoLevel,
	})
	_logHandler.SetStyles(styles)

	// Output JSON when piped.
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		_logHandler.SetFormatter(charm.JSONFormatter)
		_logHandler.SetTimeFormat(time.RFC3339)
	}

	slog.SetDefault(slog.New(_logHandler))
}

// LogConfig configures logging.
type LogConfig struct {
	Verbose bool `short:"v" env:"COUSINWORDS_VERBOSE" help:"Increase log verbosity."`
}

// apply sets logging to DEBUG if verbose is enabled.
func (c *LogConfig) apply() {
	if c.Verbose {
		_logHandler.SetLevel(charm.DebugLevel)
	}
}
