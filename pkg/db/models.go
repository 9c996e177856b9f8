package db

import "time"

// Run is one batch cousin search.
type Run struct {
	ID         int64
	Language   string
	Options    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Pair is a scored cousin relationship stored for a run.
type Pair struct {
	Word     string
	Related  string
	Distance float64
}
