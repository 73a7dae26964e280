package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
)

func itoa(n int) string { return strconv.Itoa(n) }

// userError logs err and returns its operator-facing form for cobra to print.
// Errors without a known message are returned unchanged.
func userError(err error) error {
	slog.Debug("command failed", "error", err)
	if !core.IsUserFacing(err) {
		return err
	}
	ue := core.NewUserError(err)
	return fmt.Errorf("%s (Code: %s). %s", ue.User.Message, ue.User.Code, ue.User.Action)
}

// printPreview renders one block per sheet: detection, column mapping and
// row count.
func printPreview(w io.Writer, p *core.PreviewResult) {
	fmt.Fprintf(w, "%s %s\n", heading("File:"), p.Filename)
	for _, s := range p.Sheets {
		fmt.Fprintln(w)
		if s.DetectedTable == "" {
			fmt.Fprintf(w, "%s %s  %s\n", heading("Sheet:"), s.Name, yellow("no matching table"))
			fmt.Fprintf(w, "  columns: %v\n", s.Columns)
			continue
		}
		fmt.Fprintf(w, "%s %s  -> %s (%s), %d rows\n",
			heading("Sheet:"), s.Name, bold(s.DetectedTable), s.TableName, s.RowCount)

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Column", "Field"})
		for _, m := range s.ColumnMapping {
			field := green(m.Field)
			if !m.Matched {
				field = faint("(ignored)")
			}
			table.Append([]string{m.Column, field})
		}
		table.Render()
	}
}

// printResult renders the import summary, per-sheet counts and row errors.
func printResult(w io.Writer, r *core.ImportResult) {
	summary := fmt.Sprintf("Imported %d of %d rows (%d skipped, %d errors)",
		r.SuccessCount, r.TotalRows, r.SkippedCount, len(r.Errors))
	switch {
	case len(r.Errors) == 0:
		fmt.Fprintln(w, green(summary))
	case r.SuccessCount == 0:
		fmt.Fprintln(w, red(summary))
	default:
		fmt.Fprintln(w, yellow(summary))
	}
	fmt.Fprintf(w, "%s %s\n", faint("import id:"), r.ImportID)

	if len(r.Sheets) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Sheet", "Table", "Rows", "Imported", "Skipped", "Errors"})
		for _, s := range r.Sheets {
			table.Append([]string{s.Name, s.Table, itoa(s.Rows), itoa(s.Imported), itoa(s.Skipped), itoa(s.Errors)})
		}
		table.Render()
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", yellow("warning:"), warn)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, red("Row errors:"))
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Sheet", "Row", "Code", "Error"})
		table.SetAutoWrapText(false)
		for _, e := range r.Errors {
			code := e.Code
			if e.Transient {
				code += " (retry)"
			}
			table.Append([]string{e.Sheet, itoa(e.Row), code, e.Message})
		}
		table.Render()
	}
}
