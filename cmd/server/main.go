package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/sitegen/internal/config"
	"github.com/JonMunkholm/sitegen/internal/core"
	"github.com/JonMunkholm/sitegen/internal/history"
	"github.com/JonMunkholm/sitegen/internal/logging"
	"github.com/JonMunkholm/sitegen/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Overload lets .env win over the inherited environment.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	store, err := history.OpenStore(ctx, history.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,

		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		slog.Error("failed to open run history", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("run history", "enabled", cfg.Database.Enabled())

	service := core.NewService(cfg, store)
	server := web.NewServer(service, cfg)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for generation run to finish", "active", status.Active)
			if err := service.WaitForRuns(shutdownCtx); err != nil {
				slog.Warn("generation run did not finish in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
