package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultRecentLimit caps Recent when called with a non-positive limit.
const DefaultRecentLimit = 50

const createTableSQL = `
CREATE TABLE IF NOT EXISTS generation_runs (
	id          UUID PRIMARY KEY,
	csv_path    TEXT NOT NULL,
	build_dir   TEXT NOT NULL,
	trigger     TEXT NOT NULL DEFAULT '',
	records     INTEGER NOT NULL DEFAULT 0,
	site_count  INTEGER NOT NULL DEFAULT 0,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
)`

const insertRunSQL = `
INSERT INTO generation_runs
	(id, csv_path, build_dir, trigger, records, site_count, started_at, finished_at, error)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const recentRunsSQL = `
SELECT id, csv_path, build_dir, trigger, records, site_count, started_at, finished_at, error
FROM generation_runs
ORDER BY started_at DESC
LIMIT $1`

// PoolConfig selects and configures a history store.
type PoolConfig struct {
	URL      string
	MaxConns int
	MinConns int

	// SQLitePath is used when URL is empty.
	SQLitePath string
}

// Postgres stores runs in the generation_runs table.
type Postgres struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres, verifies the connection and ensures the schema.
func Open(ctx context.Context, cfg PoolConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = int32(cfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Postgres{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// OpenStore opens a Postgres store when cfg.URL is set, a SQLite store when
// cfg.SQLitePath is set, and returns Nop otherwise.
func OpenStore(ctx context.Context, cfg PoolConfig) (Store, error) {
	switch {
	case cfg.URL != "":
		return Open(ctx, cfg)
	case cfg.SQLitePath != "":
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return Nop{}, nil
	}
}

func (s *Postgres) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create generation_runs: %w", err)
	}
	return nil
}

// Record inserts run.
func (s *Postgres) Record(ctx context.Context, run Run) error {
	_, err := s.pool.Exec(ctx, insertRunSQL,
		run.ID, run.CSVPath, run.BuildDir, run.Trigger,
		run.Records, run.SiteCount,
		run.StartedAt, run.FinishedAt, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Postgres) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.pool.Query(ctx, recentRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.CollectableRow) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.CSVPath, &r.BuildDir, &r.Trigger,
		&r.Records, &r.SiteCount,
		&r.StartedAt, &r.FinishedAt, &r.Error,
	)
	return r, err
}

// Close releases the pool.
func (s *Postgres) Close() {
	s.pool.Close()
}
