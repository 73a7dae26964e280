package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
)

var (
	importTable      string
	importNoProgress bool
	importUser       string
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a CSV or Excel file",
	Long: `Import writes every row of FILE into the database. Each sheet's table is
detected from its name and headers unless --table is given. Rows that fail
are reported at the end; the rest are still imported.

The run is recorded in the import log under the current OS user unless
--user is set.

Example:
  importctl import "Fall 2024 Programs.xlsx"
  importctl import staff.csv --table staff --user ana`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importTable, "table", "t", "",
		"Use this table for every sheet instead of detecting it")
	importCmd.Flags().BoolVar(&importNoProgress, "no-progress", false,
		"Do not draw a progress bar")
	importCmd.Flags().StringVar(&importUser, "user", "",
		"Name recorded in the import log (default: current OS user)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pool, store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	importer := core.NewImporter(core.DefaultRegistry(), store, core.WithMaxFileSize(cfg.Upload.MaxFileSize))
	opts := core.ImportOptions{TargetTable: importTable}

	var bars *sheetBars
	if !importNoProgress {
		bars = newSheetBars()
		opts.Progress = bars.update
		uiprogress.Start()
	}

	start := time.Now()
	result, err := importer.Import(ctx, data, filepath.Base(path), opts)
	if bars != nil {
		uiprogress.Stop()
	}
	if err != nil {
		return userError(err)
	}
	duration := time.Since(start)

	// The log entry is written even after Ctrl-C so partial imports are visible.
	logCtx, cancel := detachedContext(ctx, 10*time.Second)
	defer cancel()
	if err := store.RecordImport(logCtx, result, postgres.Actor{Username: actorName()}, duration); err != nil {
		slog.Warn("could not record import", "import_id", result.ImportID, "error", err)
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

// sheetBars draws one progress bar per sheet.
type sheetBars struct {
	current string
	bar     *uiprogress.Bar
}

func newSheetBars() *sheetBars { return &sheetBars{} }

func (b *sheetBars) update(p core.ImportProgress) {
	key := p.Sheet + "/" + p.Table
	if b.bar == nil || key != b.current {
		b.current = key
		total := p.TotalRows
		if total <= 0 {
			total = 1
		}
		label := p.Table
		if p.Sheet != "" {
			label = p.Sheet + " -> " + p.Table
		}
		b.bar = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
		b.bar.PrependFunc(func(*uiprogress.Bar) string { return label + " " })
	}
	// Row counts the header, so data row n is progress n-1.
	_ = b.bar.Set(p.Row - 1)
}

func actorName() string {
	if importUser != "" {
		return importUser
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func detachedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
