package core

import (
	"context"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/logging"
)

// maxSampleRows caps SheetPreview.SampleRows.
const maxSampleRows = 5

// Previewer reports how a file would be imported without writing anything.
type Previewer struct {
	registry    *Registry
	maxFileSize int64
}

// NewPreviewer creates a Previewer over registry.
func NewPreviewer(registry *Registry, opts ...ImporterOption) *Previewer {
	cfg := buildConfig(opts)
	return &Previewer{registry: registry, maxFileSize: cfg.maxFileSize}
}

// Preview parses data and reports, per sheet, the detected table, the
// column mapping (unmatched columns included), and the first rows verbatim.
// Sheets that match no table are still listed, with no mapping.
func (p *Previewer) Preview(ctx context.Context, data []byte, filename, targetTable string) (*PreviewResult, error) {
	file, err := openUpload(p.registry, p.maxFileSize, data, filename, targetTable)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{Filename: filename, Sheets: make([]SheetPreview, 0, len(file.Sheets))}
	for _, sheet := range file.Sheets {
		sp := SheetPreview{
			Name:     sheet.Name,
			Columns:  append([]string{}, sheet.Headers...),
			RowCount: len(sheet.Rows),
		}

		n := len(sheet.Rows)
		if n > maxSampleRows {
			n = maxSampleRows
		}
		sp.SampleRows = append([]*ImportRow{}, sheet.Rows[:n]...)

		if key, ok := sheetTable(p.registry, file.Format, sheet, targetTable); ok {
			d, _ := p.registry.Get(key)
			sp.DetectedTable = d.Key
			sp.TableName = d.DestinationTable
			sp.ColumnMapping = d.MapColumns(sheet.Headers)
		}
		result.Sheets = append(result.Sheets, sp)
	}

	logging.FromContext(ctx).Debug("preview built",
		"filename", filename,
		"sheets", len(result.Sheets),
	)
	return result, nil
}
