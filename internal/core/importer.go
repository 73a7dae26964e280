package core

// importer.go runs the import pipeline:
//
//	parse file -> per sheet: pick table -> per row: map, resolve keys, persist
//
// Only file-level problems (unsupported extension, undecodable container,
// oversize input, unknown explicit table) are returned as errors. Everything
// else lands in the ImportResult and processing moves on to the next row.
// Rows are written one at a time with no surrounding transaction.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
)

// DefaultMaxFileSize is the largest accepted upload (10MB).
const DefaultMaxFileSize int64 = 10 << 20

var (
	// ErrFileTooLarge is returned when the upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnknownTable is returned when an explicit target table is not registered.
	ErrUnknownTable = errors.New("unknown table")
)

// firstDataRow is the row number of the first row after the header.
const firstDataRow = 2

// ImportOptions controls a single import call.
type ImportOptions struct {
	// TargetTable, when set, is used for every sheet instead of detection.
	TargetTable string

	// Progress, when set, is called after every row.
	Progress ProgressFunc
}

// Importer writes spreadsheet rows into storage.
type Importer struct {
	registry    *Registry
	store       Storage
	maxFileSize int64
}

// ImporterOption configures an Importer or Previewer.
type ImporterOption func(*pipelineConfig)

type pipelineConfig struct {
	maxFileSize int64
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) ImporterOption {
	return func(c *pipelineConfig) {
		if n > 0 {
			c.maxFileSize = n
		}
	}
}

func buildConfig(opts []ImporterOption) pipelineConfig {
	cfg := pipelineConfig{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewImporter creates an Importer over registry and store.
func NewImporter(registry *Registry, store Storage, opts ...ImporterOption) *Importer {
	cfg := buildConfig(opts)
	return &Importer{
		registry:    registry,
		store:       store,
		maxFileSize: cfg.maxFileSize,
	}
}

// Registry returns the registry the Importer detects against.
func (im *Importer) Registry() *Registry { return im.registry }

// Import parses data, maps every row, and persists it. The returned error is
// non-nil only for file-level failures, in which case no result is produced.
func (im *Importer) Import(ctx context.Context, data []byte, filename string, opts ImportOptions) (*ImportResult, error) {
	file, err := openUpload(im.registry, im.maxFileSize, data, filename, opts.TargetTable)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		ImportID:    uuid.NewString(),
		Filename:    filename,
		TargetTable: opts.TargetTable,
		Errors:      []RowError{},
		CreatedIDs:  []CreatedID{},
		Sheets:      []SheetResult{},
		Warnings:    []string{},
	}

	logger := logging.WithFields(ctx,
		"import_id", result.ImportID,
		"filename", filename,
	)
	logger.Info("import started",
		"sheets", len(file.Sheets),
		"target_table", opts.TargetTable,
	)
	start := time.Now()

	for _, sheet := range file.Sheets {
		if err := ctx.Err(); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("import stopped before sheet %q: %v", sheet.Name, err))
			break
		}

		if len(sheet.Rows) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Sheet %q has no data rows", sheet.Name))
			logger.Warn("sheet has no data rows", "sheet", sheet.Name)
			continue
		}

		key, ok := sheetTable(im.registry, file.Format, sheet, opts.TargetTable)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Sheet %q could not be mapped to a table", sheet.Name))
			logger.Warn("sheet not mapped to a table", "sheet", sheet.Name, "columns", len(sheet.Headers))
			continue
		}
		d, _ := im.registry.Get(key)

		if result.TargetTable == "" {
			result.TargetTable = key
		}

		tag := ""
		if file.Format == FormatSpreadsheet {
			tag = sheet.Name
		}
		im.importSheet(ctx, d, sheet, tag, result, opts.Progress)
	}

	logger.Info("import completed",
		"target_table", result.TargetTable,
		"rows", result.TotalRows,
		"imported", result.SuccessCount,
		"skipped", result.SkippedCount,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// importSheet processes every row of one sheet and appends to result.
func (im *Importer) importSheet(ctx context.Context, d *TableDescriptor, sheet Sheet, tag string, result *ImportResult, progress ProgressFunc) {
	summary := SheetResult{Name: sheet.Name, Table: d.Key, Rows: len(sheet.Rows)}
	result.TotalRows += len(sheet.Rows)

	logger := logging.WithFields(ctx, "import_id", result.ImportID, "sheet", sheet.Name, "table", d.Key)

	for i, row := range sheet.Rows {
		rowNum := i + firstDataRow

		if err := ctx.Err(); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("import stopped at sheet %q row %d: %v", sheet.Name, rowNum, err))
			logger.Warn("import stopped", "row", rowNum, "error", err)
			break
		}

		out := im.importRow(ctx, d, row)
		switch {
		case out.err != nil:
			out.err.Row = rowNum
			out.err.Sheet = tag
			result.Errors = append(result.Errors, *out.err)
			summary.Errors++
			logger.Debug("row failed", "row", rowNum, "error", out.err.Message, "transient", out.err.Transient)
		case out.skipped:
			result.SkippedCount++
			summary.Skipped++
		default:
			result.SuccessCount++
			summary.Imported++
			result.CreatedIDs = append(result.CreatedIDs, CreatedID{ID: out.id, Row: rowNum, Sheet: tag})
		}

		if progress != nil {
			progress(ImportProgress{
				Sheet:     sheet.Name,
				Table:     d.Key,
				Row:       rowNum,
				TotalRows: len(sheet.Rows),
				Imported:  summary.Imported,
				Skipped:   summary.Skipped,
				Errors:    summary.Errors,
			})
		}
	}

	result.Sheets = append(result.Sheets, summary)
}

// rowOutcome is the result of one row: an id, a skip, or an error.
type rowOutcome struct {
	id      int64
	skipped bool
	err     *RowError
}

func (im *Importer) importRow(ctx context.Context, d *TableDescriptor, row *ImportRow) rowOutcome {
	rec := MapRow(row, d)
	if rec.Len() == 0 {
		return rowOutcome{skipped: true}
	}

	if err := ResolveForeignKeys(ctx, im.store, d, rec); err != nil {
		re := newRowError(err)
		var lookupErr *LookupError
		if errors.As(err, &lookupErr) {
			re.RawRow = row
		}
		return rowOutcome{err: re}
	}
	if rec.Len() == 0 {
		return rowOutcome{skipped: true}
	}

	var (
		id  int64
		err error
	)
	if d.UniqueColumn != "" && rec.Has(d.UniqueColumn) {
		id, err = im.store.InsertOrUpdate(ctx, d.DestinationTable, rec, d.UniqueColumn)
	} else {
		id, err = im.store.Insert(ctx, d.DestinationTable, rec)
	}
	if err != nil {
		re := newRowError(err)
		re.RawRow = row
		return rowOutcome{err: re}
	}
	return rowOutcome{id: id}
}

func newRowError(err error) *RowError {
	return &RowError{
		Message:   err.Error(),
		Code:      MapError(err).Code,
		Transient: errors.Is(err, ErrTransient),
	}
}

// openUpload applies the checks shared by import and preview, then parses.
func openUpload(registry *Registry, maxFileSize int64, data []byte, filename, target string) (*ParsedFile, error) {
	if int64(len(data)) > maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(data), maxFileSize)
	}
	if target != "" {
		if _, ok := registry.Get(target); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTable, target)
		}
	}
	return ParseFile(data, filename)
}

// sheetTable picks the descriptor key for sheet. An explicit target wins;
// spreadsheets then try the sheet name; header scoring comes last.
func sheetTable(registry *Registry, format FileFormat, sheet Sheet, target string) (string, bool) {
	if target != "" {
		return target, true
	}
	if format == FormatSpreadsheet {
		return registry.DetectSheet(sheet.Name, sheet.Headers)
	}
	return registry.Detect(sheet.Headers)
}
