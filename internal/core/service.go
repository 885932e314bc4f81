package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/sitegen/internal/config"
	"github.com/JonMunkholm/sitegen/internal/csvparse"
	"github.com/JonMunkholm/sitegen/internal/history"
	"github.com/JonMunkholm/sitegen/internal/logging"
	"github.com/JonMunkholm/sitegen/internal/sitegen"
	"github.com/google/uuid"
)

// historyWriteTimeout bounds recording a run after it finished.
const historyWriteTimeout = 5 * time.Second

// Service runs the CSV to site pipeline.
type Service struct {
	csvPath     string
	maxFileSize int64
	timeout     time.Duration

	gen     *sitegen.Generator
	store   history.Store
	limiter *RunLimiter
}

// ServiceOption customizes a Service built by NewService.
type ServiceOption func(*Service)

// WithRunLimiter makes the service share l instead of owning a
// single-slot limiter.
func WithRunLimiter(l *RunLimiter) ServiceOption {
	return func(s *Service) {
		s.limiter = l
	}
}

// NewService builds a Service from configuration. A nil store disables history.
func NewService(cfg *config.Config, store history.Store, opts ...ServiceOption) *Service {
	if store == nil {
		store = history.Nop{}
	}
	s := &Service{
		csvPath:     cfg.Paths.CSVPath,
		maxFileSize: cfg.Generate.MaxFileSize,
		timeout:     cfg.Generate.Timeout,
		gen:         sitegen.New(cfg.Paths.BuildDir, cfg.Generate.Concurrency),
		store:       store,
		limiter:     NewRunLimiter(1, DefaultMaxWait),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunResult summarizes a generation run.
type RunResult struct {
	RunID    uuid.UUID      `json:"run_id"`
	CSVPath  string         `json:"csv_path"`
	BuildDir string         `json:"build_dir"`
	Encoding string         `json:"encoding"`
	Records  int            `json:"records"`
	Sites    []sitegen.Site `json:"sites"`
	Stats    csvparse.Stats `json:"-"`
	Duration time.Duration  `json:"duration"`
}

// Generate runs the pipeline against the configured CSV path.
func (s *Service) Generate(ctx context.Context) (*RunResult, error) {
	return s.GenerateFrom(ctx, s.csvPath)
}

// GenerateFrom loads csvPath, parses it and writes one site per record.
// It waits for a running generation to finish first.
//
// A missing file fails with an error wrapping ErrSourceNotFound before any
// parsing happens. A file without data rows is not an error; the result
// simply holds zero records.
func (s *Service) GenerateFrom(ctx context.Context, csvPath string) (*RunResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()
	return s.generate(ctx, csvPath)
}

// TryGenerate runs the pipeline against the configured CSV path, failing
// with ErrRunInProgress at once if another run holds the slot.
func (s *Service) TryGenerate(ctx context.Context) (*RunResult, error) {
	if !s.limiter.TryAcquire() {
		return nil, ErrRunInProgress
	}
	defer s.limiter.Release()
	return s.generate(ctx, s.csvPath)
}

func (s *Service) generate(ctx context.Context, csvPath string) (*RunResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result := &RunResult{
		RunID:    uuid.New(),
		CSVPath:  csvPath,
		BuildDir: s.gen.BuildDir(),
	}
	logger := logging.ForRun(ctx, result.RunID.String(), TriggerFromContext(ctx), csvPath)
	started := time.Now()

	err := s.run(ctx, logger, result)
	result.Duration = time.Since(started)
	s.recordRun(ctx, logger, result, started, err)

	if err != nil {
		logger.Error("generation failed", "error", err, "code", MapError(err).Code)
		return nil, err
	}
	logger.Info("generation finished",
		"records", result.Records,
		"sites", len(result.Sites),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, result *RunResult) error {
	src, err := LoadSource(result.CSVPath, s.maxFileSize)
	if err != nil {
		return err
	}
	result.Encoding = src.Encoding
	logger.Debug("source loaded", "bytes", src.Bytes, "encoding", src.Encoding)

	records, stats := csvparse.ParseWithStats(src.Text)
	result.Records = len(records)
	result.Stats = stats

	logger.Debug("csv parsed",
		"rows", stats.Rows,
		"records", stats.Records,
		"blank_suppressed", stats.BlankSuppressed,
		"blank_dropped", stats.BlankDropped,
	)
	if stats.Ragged() {
		logger.Warn("rows did not match header width",
			"short_rows", stats.ShortRows,
			"long_rows", stats.LongRows,
		)
	}

	if len(records) == 0 {
		return nil
	}

	sites, err := s.gen.Generate(ctx, records)
	if err != nil {
		return err
	}
	result.Sites = sites
	return nil
}

func (s *Service) recordRun(ctx context.Context, logger *slog.Logger, result *RunResult, started time.Time, runErr error) {
	run := history.Run{
		ID:         result.RunID,
		CSVPath:    result.CSVPath,
		BuildDir:   result.BuildDir,
		Trigger:    TriggerFromContext(ctx),
		Records:    result.Records,
		SiteCount:  len(result.Sites),
		StartedAt:  started,
		FinishedAt: started.Add(result.Duration),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	// The run context may already be cancelled; history is written regardless.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()
	if err := s.store.Record(writeCtx, run); err != nil {
		logger.Warn("failed to record run history", "error", err)
	}
}

// RecentRuns lists recorded runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]history.Run, error) {
	return s.store.Recent(ctx, limit)
}

// BuildDir returns the directory sites are written to.
func (s *Service) BuildDir() string {
	return s.gen.BuildDir()
}

// LimiterStatus reports whether a run is in progress.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until the in-flight run finishes or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
