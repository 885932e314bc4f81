package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Timestamps are stored as Unix nanoseconds so both SQLite drivers agree on
// the column type.
const sqliteCreateTableSQL = `
CREATE TABLE IF NOT EXISTS generation_runs (
	id          TEXT PRIMARY KEY,
	csv_path    TEXT NOT NULL,
	build_dir   TEXT NOT NULL,
	"trigger"   TEXT NOT NULL DEFAULT '',
	records     INTEGER NOT NULL DEFAULT 0,
	site_count  INTEGER NOT NULL DEFAULT 0,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
)`

const sqliteInsertRunSQL = `
INSERT INTO generation_runs
	(id, csv_path, build_dir, "trigger", records, site_count, started_at, finished_at, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const sqliteRecentRunsSQL = `
SELECT id, csv_path, build_dir, "trigger", records, site_count, started_at, finished_at, error
FROM generation_runs
ORDER BY started_at DESC
LIMIT ?`

// SQLite stores runs in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteCreateTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create generation_runs: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Record inserts run.
func (s *SQLite) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, sqliteInsertRunSQL,
		run.ID.String(), run.CSVPath, run.BuildDir, run.Trigger,
		run.Records, run.SiteCount,
		run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(), run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, sqliteRecentRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r                 Run
			id                string
			started, finished int64
		)
		if err := rows.Scan(&id, &r.CSVPath, &r.BuildDir, &r.Trigger,
			&r.Records, &r.SiteCount, &started, &finished, &r.Error); err != nil {
			return nil, fmt.Errorf("scan runs: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan runs: id %q: %w", id, err)
		}
		r.StartedAt = time.Unix(0, started).UTC()
		r.FinishedAt = time.Unix(0, finished).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}

// Close closes the database.
func (s *SQLite) Close() {
	s.db.Close()
}
