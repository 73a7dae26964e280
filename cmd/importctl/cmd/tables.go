package cmd

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables files can be imported into",
	Long: `Tables lists every importable table in detection order: its key, the
destination table, the header keywords that identify it, the fields a row
must carry, and the columns resolved by name lookup.

Example:
  importctl tables`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	supported := core.DefaultRegistry().Supported()

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"#", "Key", "Table", "Identified By", "Required", "Lookups"})
	table.SetAutoWrapText(false)
	for i, s := range supported {
		table.Append([]string{
			itoa(i + 1),
			s.Key,
			s.TableName,
			strings.Join(s.IdentifyColumns, ", "),
			strings.Join(s.RequiredColumns, ", "),
			strings.Join(s.ForeignKeyFields, ", "),
		})
	}
	table.Render()
	return nil
}
