package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/config"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	_ "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core/tables" // Register all tables
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/web"
)

func main() {
	// Overload lets a local .env win over the shell environment.
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

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		applied, err := postgres.Migrate(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations up to date", "applied", len(applied))
	}

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry := core.DefaultRegistry()
	slog.Info("tables registered", "count", registry.Len(), "keys", registry.Keys())

	store := postgres.New(pool)
	server := web.NewServer(ctx, cfg, web.Deps{
		Importer:  core.NewImporter(registry, store, core.WithMaxFileSize(cfg.Upload.MaxFileSize)),
		Previewer: core.NewPreviewer(registry, core.WithMaxFileSize(cfg.Upload.MaxFileSize)),
		Limiter:   core.NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		ImportLog: store,
		DB:        pool,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("imports did not complete in time", "error", err)
		return
	}
	slog.Info("server stopped")
}
