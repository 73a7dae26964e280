package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the importer's own tables",
	Long: `Migrate applies or inspects the migrations for tables owned by the
importer, such as import_log. The domain tables are managed elsewhere.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applied, err := postgres.Migrate(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintln(out, green("Already up to date."))
			return nil
		}
		for _, v := range applied {
			fmt.Fprintf(out, "%s %05d\n", green("applied"), v)
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		states, err := postgres.MigrationStatus(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Version", "File", "Status", "Applied At"})
		for _, s := range states {
			status, at := yellow("pending"), ""
			if s.Applied {
				status, at = green("applied"), s.AppliedAt.Local().Format("2006-01-02 15:04:05")
			}
			table.Append([]string{fmt.Sprintf("%05d", s.Version), s.Path, status, at})
		}
		table.Render()
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
