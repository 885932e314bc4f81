// Command generate reads the website CSV and writes one site scaffold per
// data row into the build directory.
//
// Usage:
//
//	generate [path/to/website.csv]
//
// Without an argument the path comes from CSV_PATH (default website.csv).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/sitegen/internal/config"
	"github.com/JonMunkholm/sitegen/internal/core"
	"github.com/JonMunkholm/sitegen/internal/history"
	"github.com/JonMunkholm/sitegen/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := history.OpenStore(ctx, history.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,

		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		// History is optional for the CLI.
		slog.Warn("run history unavailable", "error", err)
		store = history.Nop{}
	}
	defer store.Close()

	csvPath := cfg.Paths.CSVPath
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	service := core.NewService(cfg, store)
	result, err := service.GenerateFrom(core.ContextWithTrigger(ctx, "cli"), csvPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return 1
	}

	if result.Records == 0 {
		slog.Info("no data rows found, nothing to generate", "csv_path", csvPath)
		return 0
	}
	for _, site := range result.Sites {
		slog.Info("generated site", "domain", site.Domain, "dir", site.Dir)
	}
	slog.Info("done",
		"sites", len(result.Sites),
		"build_dir", result.BuildDir,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return 0
}
