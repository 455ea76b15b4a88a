// Package history archives finished runs and their comparison rows in a
// SQLite database so scores can be tracked across batches. It is write-only
// from the pipeline's point of view: nothing is ever resumed from it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/backmassage/picvmaf/internal/report"
)

// Run is the archived metadata of one invocation.
type Run struct {
	ID        string // Assigned by RecordRun when empty.
	StartedAt time.Time
	InputDir  string
	PicExt    string
	Feature   string
	ScoreKey  string
	OutputCSV string
	Images    int
	MeanScore float64
	Elapsed   time.Duration
}

// Store is a handle on a history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("history %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores run and its rows in one transaction and returns the run
// ID (a fresh UUID unless run.ID was set).
func (s *Store) RecordRun(ctx context.Context, run Run, rows []report.Row) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, input_dir, pic_ext, feature, score_key,
		                  output_csv, image_count, mean_score, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.InputDir, run.PicExt,
		run.Feature, run.ScoreKey, run.OutputCSV, run.Images, run.MeanScore,
		run.Elapsed.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comparisons (run_id, pair_index, image_1, image_2, score)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("record comparisons: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.Left, r.Right, r.Score); err != nil {
			return "", fmt.Errorf("record comparison %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// Runs lists archived runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rs, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, input_dir, pic_ext, feature, score_key,
		       output_csv, image_count, mean_score, elapsed_ms
		FROM runs
		ORDER BY started_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rs.Close()

	var runs []Run
	for rs.Next() {
		var (
			r         Run
			startedAt string
			elapsedMs int64
		)
		if err := rs.Scan(&r.ID, &startedAt, &r.InputDir, &r.PicExt, &r.Feature, &r.ScoreKey,
			&r.OutputCSV, &r.Images, &r.MeanScore, &elapsedMs); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("list runs: bad timestamp %q: %w", startedAt, err)
		}
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rs.Err()
}

// Comparisons returns the rows archived for runID, in pair order.
func (s *Store) Comparisons(ctx context.Context, runID string) ([]report.Row, error) {
	rs, err := s.db.QueryContext(ctx, `
		SELECT image_1, image_2, score
		FROM comparisons
		WHERE run_id = ?
		ORDER BY pair_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	defer rs.Close()

	var rows []report.Row
	for rs.Next() {
		var r report.Row
		if err := rs.Scan(&r.Left, &r.Right, &r.Score); err != nil {
			return nil, fmt.Errorf("list comparisons: %w", err)
		}
		rows = append(rows, r)
	}
	return rows, rs.Err()
}
