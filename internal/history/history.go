// Package history records generation runs.
//
// A Postgres-backed store is used when a database is configured; otherwise
// a no-op store keeps the rest of the application unaware of the difference.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDisabled is returned by stores that do not keep history.
var ErrDisabled = errors.New("history disabled")

// Run is one generation run.
type Run struct {
	ID         uuid.UUID `json:"id"`
	CSVPath    string    `json:"csv_path"`
	BuildDir   string    `json:"build_dir"`
	Trigger    string    `json:"trigger"`
	Records    int       `json:"records"`
	SiteCount  int       `json:"site_count"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close()
}

// Nop is a Store that keeps nothing.
type Nop struct{}

// Record discards the run.
func (Nop) Record(context.Context, Run) error { return nil }

// Recent always fails with ErrDisabled.
func (Nop) Recent(context.Context, int) ([]Run, error) { return nil, ErrDisabled }

// Close is a no-op.
func (Nop) Close() {}
