package pipeline

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/japaniel/cousinwords/pkg/db"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*sql.DB, int64) {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })

	runID, err := db.CreateRun(conn, "eng", "")
	require.NoError(t, err)
	return conn, runID
}

func TestResultWriterCommitsBatches(t *testing.T) {
	conn, runID := setupDB(t)

	w := NewResultWriter(conn, runID, "eng", 2, 0)
	require.NoError(t, w.Submit(
		db.Pair{Word: "water", Related: "aquarium", Distance: 1},
		db.Pair{Word: "water", Related: "aqueduct", Distance: 2},
		db.Pair{Word: "fire", Related: "pyre", Distance: 3},
	))

	done := make(chan error, 1)
	go func() { done <- w.Close() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for batch commit/close")
	}

	pairs, err := db.GetPairsByRun(conn, runID, 0)
	require.NoError(t, err)
	assert.Len(t, pairs, 3)
	assert.Equal(t, 3, w.Written())
}

func TestResultWriterFlushesOnInterval(t *testing.T) {
	conn, runID := setupDB(t)

	w := NewResultWriter(conn, runID, "eng", 100, 20*time.Millisecond)
	defer w.Close()
	require.NoError(t, w.Submit(db.Pair{Word: "water", Related: "aquarium", Distance: 1}))

	assert.Eventually(t, func() bool { return w.Written() == 1 }, time.Second, 10*time.Millisecond)
}

func TestResultWriterRollsBackFailedBatch(t *testing.T) {
	conn, runID := setupDB(t)

	w := NewResultWriter(conn, runID, "eng", 10, 0)
	var reported []error
	w.OnError = func(e error) { reported = append(reported, e) }

	// The empty word fails the whole batch.
	require.NoError(t, w.Submit(
		db.Pair{Word: "water", Related: "aquarium", Distance: 1},
		db.Pair{Word: "", Related: "broken", Distance: 2},
	))
	err := w.Close()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to persist pair"))
	assert.Len(t, reported, 1)

	pairs, err := db.GetPairsByRun(conn, runID, 0)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestResultWriterClosed(t *testing.T) {
	conn, runID := setupDB(t)

	w := NewResultWriter(conn, runID, "eng", 10, 0)
	require.NoError(t, w.Close())
	assert.Equal(t, ErrBatchWriterClosed, w.Submit(db.Pair{Word: "a", Related: "b"}))
	assert.Equal(t, ErrBatchWriterClosed, w.Close())
}
