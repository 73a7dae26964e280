package cmd

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
)

var (
	historyTable  string
	historyLimit  int
	historyOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent imports",
	Long: `History lists entries from the import log, newest first.

Example:
  importctl history
  importctl history --table programs --limit 10`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyTable, "table", "t", "",
		"Only show imports into this table")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", postgres.DefaultHistoryLimit,
		"Maximum number of entries")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0,
		"Number of entries to skip")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	pool, store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	page, err := store.ListImports(ctx, postgres.ImportLogOptions{
		TargetTable: historyTable,
		Limit:       historyLimit,
		Offset:      historyOffset,
	})
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if len(page.Entries) == 0 {
		fmt.Fprintln(out, yellow("No imports recorded."))
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"When", "File", "Table", "User", "Rows", "Imported", "Skipped", "Errors", "Took"})
	for _, e := range page.Entries {
		errs := itoa(e.ErrorCount)
		if e.ErrorCount > 0 {
			errs = red(errs)
		}
		table.Append([]string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Filename,
			e.TargetTable,
			e.Username,
			itoa(e.TotalRows),
			itoa(e.Imported),
			itoa(e.Skipped),
			errs,
			(time.Duration(e.DurationMS) * time.Millisecond).String(),
		})
	}
	table.Render()

	fmt.Fprintf(out, "%s\n", faint(fmt.Sprintf("showing %d-%d of %d",
		page.Offset+1, page.Offset+len(page.Entries), page.TotalCount)))
	return nil
}
