package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateRun records the start of a run and returns its id.
func CreateRun(db DBExecutor, language, options string) (int64, error) {
	if strings.TrimSpace(language) == "" {
		return 0, fmt.Errorf("language must be non-empty")
	}
	res, err := db.Exec(`INSERT INTO runs (language, options, started_at) VALUES (?, ?, ?)`,
		language, options, time.Now())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun stamps the run's completion time.
func FinishRun(db DBExecutor, runID int64) error {
	_, err := db.Exec(`UPDATE runs SET finished_at = ? WHERE id = ?`, time.Now(), runID)
	return err
}

// GetRun loads a run by id.
func GetRun(db DBExecutor, runID int64) (Run, error) {
	var r Run
	var opts sql.NullString
	var finished sql.NullTime
	err := db.QueryRow(`SELECT id, language, options, started_at, finished_at FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.Language, &opts, &r.StartedAt, &finished)
	if err != nil {
		return Run{}, err
	}
	r.Options = opts.String
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return r, nil
}

// CreateOrGetWord returns existing word id or inserts a new word and returns its id.
func CreateOrGetWord(db DBExecutor, word, language string) (int64, error) {
	trimmedWord := strings.TrimSpace(word)
	if trimmedWord == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}

	var id int64
	err := db.QueryRow(`INSERT INTO words (word, language) VALUES (?, ?)
			  ON CONFLICT(word, language) DO UPDATE SET word = excluded.word
			  RETURNING id`, trimmedWord, language).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert word: %w", err)
	}
	return id, nil
}

// InsertPair stores one scored pair for a run. Re-inserting the same pair
// updates its distance.
func InsertPair(db DBExecutor, runID int64, language string, p Pair) error {
	if runID <= 0 {
		return fmt.Errorf("runID must be positive")
	}
	wordID, err := CreateOrGetWord(db, p.Word, language)
	if err != nil {
		return err
	}
	relatedID, err := CreateOrGetWord(db, p.Related, language)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO cousin_pairs (run_id, word_id, related_word_id, distance)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(run_id, word_id, related_word_id) DO UPDATE SET distance = excluded.distance`,
		runID, wordID, relatedID, p.Distance)
	return err
}

// GetPairsByRun returns a run's pairs ordered by distance, farthest first.
// limit <= 0 returns all of them.
func GetPairsByRun(db DBExecutor, runID int64, limit int) ([]Pair, error) {
	query := `SELECT w.word, r.word, p.distance
		FROM cousin_pairs p
		JOIN words w ON w.id = p.word_id
		JOIN words r ON r.id = p.related_word_id
		WHERE p.run_id = ?
		ORDER BY p.distance DESC, w.word, r.word`
	args := []interface{}{runID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.Word, &p.Related, &p.Distance); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
