package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

var previewTable string

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show how a file would be imported without writing anything",
	Long: `Preview parses FILE and reports, for every sheet, the detected table and
how each column maps onto it. Nothing is written and no database connection
is needed.

Example:
  importctl preview "Fall 2024 Programs.xlsx"
  importctl preview roster.csv --table students`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewTable, "table", "t", "",
		"Use this table for every sheet instead of detecting it")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	previewer := core.NewPreviewer(core.DefaultRegistry(), core.WithMaxFileSize(cfg.Upload.MaxFileSize))
	result, err := previewer.Preview(cmd.Context(), data, filepath.Base(path), previewTable)
	if err != nil {
		return userError(err)
	}

	printPreview(cmd.OutOrStdout(), result)
	return nil
}
