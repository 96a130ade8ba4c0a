package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/promptstat/pkg/promptstat/internalerr"
	"github.com/cognicore/promptstat/pkg/promptstat/store"
)

// sqliteStore keeps analysis runs and their result tables.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the run database at path.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}
	// Pragmas are per connection; a single writer keeps them in force.
	db.SetMaxOpenConns(1)

	// Readers of `runs` must not block the run being written.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	// Result rows reference their run and go with it.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close releases the database.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates the run and result tables on first open.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	output_dir TEXT,
	started_at TEXT NOT NULL,
	records INTEGER NOT NULL DEFAULT 0,
	stages TEXT
);

CREATE TABLE IF NOT EXISTS frequencies (
	run_id TEXT NOT NULL,
	column_name TEXT NOT NULL,
	rank INTEGER NOT NULL,
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, column_name, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pairs (
	run_id TEXT NOT NULL,
	column_name TEXT NOT NULL,
	rank INTEGER NOT NULL,
	word1 TEXT NOT NULL,
	word2 TEXT NOT NULL,
	count INTEGER NOT NULL,
	npmi REAL NOT NULL DEFAULT 0,
	PRIMARY KEY(run_id, column_name, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS consistency (
	run_id TEXT NOT NULL,
	category TEXT NOT NULL,
	count INTEGER NOT NULL,
	jaccard_mean REAL NOT NULL,
	jaccard_median REAL NOT NULL,
	jaccard_std REAL NOT NULL,
	overlap_mean REAL NOT NULL,
	overlap_median REAL NOT NULL,
	overlap_std REAL NOT NULL,
	PRIMARY KEY(run_id, category),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or updates a run.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}
	stagesJSON, err := json.Marshal(r.Stages)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO runs (id, input, output_dir, started_at, records, stages)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	input=excluded.input,
	output_dir=excluded.output_dir,
	started_at=excluded.started_at,
	records=excluded.records,
	stages=excluded.stages;
`, r.ID, r.Input, r.OutputDir, r.StartedAt.UTC().Format(time.RFC3339Nano), r.Records, string(stagesJSON))
	return err
}

// Runs returns the most recent runs first.
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, input, output_dir, started_at, records, stages
FROM runs
ORDER BY started_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			r          store.Run
			startedAt  string
			stagesJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.OutputDir, &startedAt, &r.Records, &stagesJSON); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if stagesJSON.Valid && stagesJSON.String != "" {
			if err := json.Unmarshal([]byte(stagesJSON.String), &r.Stages); err != nil {
				return nil, err
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SaveFrequencies replaces the frequency rows of one column of a run.
func (s *sqliteStore) SaveFrequencies(ctx context.Context, runID, column string, rows []store.WordCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM frequencies WHERE run_id = ? AND column_name = ?`, runID, column); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO frequencies (run_id, column_name, rank, word, count) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, column, i+1, r.Word, r.Count); err != nil {
			return fmt.Errorf("insert frequency %q: %w", r.Word, err)
		}
	}
	return tx.Commit()
}

// Frequencies returns the stored frequency rows of a column in rank order.
func (s *sqliteStore) Frequencies(ctx context.Context, runID, column string) ([]store.WordCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT word, count FROM frequencies
WHERE run_id = ? AND column_name = ?
ORDER BY rank;
`, runID, column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.WordCount
	for rows.Next() {
		var wc store.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, err
		}
		out = append(out, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("frequencies %s/%s: %w", runID, column, internalerr.ErrNotFound)
	}
	return out, nil
}

// SavePairs replaces the pair rows of one column of a run.
func (s *sqliteStore) SavePairs(ctx context.Context, runID, column string, rows []store.Pair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pairs WHERE run_id = ? AND column_name = ?`, runID, column); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pairs (run_id, column_name, rank, word1, word2, count, npmi) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range rows {
		if _, err := stmt.ExecContext(ctx, runID, column, i+1, p.Word1, p.Word2, p.Count, p.NPMI); err != nil {
			return fmt.Errorf("insert pair %s/%s: %w", p.Word1, p.Word2, err)
		}
	}
	return tx.Commit()
}

// Pairs returns the stored pairs of a column in rank order.
func (s *sqliteStore) Pairs(ctx context.Context, runID, column string) ([]store.Pair, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT word1, word2, count, npmi FROM pairs
WHERE run_id = ? AND column_name = ?
ORDER BY rank;
`, runID, column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Pair
	for rows.Next() {
		var p store.Pair
		if err := rows.Scan(&p.Word1, &p.Word2, &p.Count, &p.NPMI); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveConsistency replaces the consistency summaries of a run.
func (s *sqliteStore) SaveConsistency(ctx context.Context, runID string, rows []store.Consistency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM consistency WHERE run_id = ?`, runID); err != nil {
		return err
	}
	for _, c := range rows {
		_, err := tx.ExecContext(ctx, `
INSERT INTO consistency (run_id, category, count, jaccard_mean, jaccard_median, jaccard_std, overlap_mean, overlap_median, overlap_std)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`, runID, c.Category, c.Count, c.JaccardMean, c.JaccardMedian, c.JaccardStd, c.OverlapMean, c.OverlapMedian, c.OverlapStd)
		if err != nil {
			return fmt.Errorf("insert consistency %s: %w", c.Category, err)
		}
	}
	return tx.Commit()
}

// Consistency returns the consistency summaries of a run in insertion order.
func (s *sqliteStore) Consistency(ctx context.Context, runID string) ([]store.Consistency, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT category, count, jaccard_mean, jaccard_median, jaccard_std, overlap_mean, overlap_median, overlap_std
FROM consistency
WHERE run_id = ?
ORDER BY rowid;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Consistency
	for rows.Next() {
		var c store.Consistency
		if err := rows.Scan(&c.Category, &c.Count, &c.JaccardMean, &c.JaccardMedian, &c.JaccardStd,
			&c.OverlapMean, &c.OverlapMedian, &c.OverlapStd); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
