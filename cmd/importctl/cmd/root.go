// Package cmd holds the importctl commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/config"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	_ "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core/tables" // Register all tables
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
)

// CLI flags that override environment settings
var (
	envFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "importctl",
	Short: "Switch4Good spreadsheet importer",
	Long: `importctl previews and imports CSV and Excel files into the Switch4Good
database, using the same table detection and column mapping as the web API.

Settings come from the environment (DATABASE_URL, UPLOAD_MAX_FILE_SIZE,
LOG_LEVEL, ...), optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile == "" {
			return
		}
		if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
			slog.Warn("could not read env file", "path", envFile, "error", err)
		}
	},
}

// Execute runs the root command. Ctrl-C cancels the running command's
// context; an import stops at the next row and reports what it wrote.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// loadConfig reads the tool settings and sets up logging. Logs go to stderr
// so tables and progress bars on stdout stay readable.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadTool()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	return cfg, nil
}

// loadPipelineConfig is loadConfig for commands that never touch the
// database, so DATABASE_URL may be unset.
func loadPipelineConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		cfg = &config.Config{
			Upload:  config.UploadConfig{MaxFileSize: core.DefaultMaxFileSize},
			Logging: config.LoggingConfig{Level: "warn", Format: "text"},
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
	}
	return cfg
}

// connect opens a pool and wraps it in a Store.
func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *postgres.Store, error) {
	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return pool, postgres.New(pool), nil
}
