package core

// parse.go turns an uploaded byte buffer into sheets of ordered rows.
//
// CSV files become a single sheet named CSVSheetName. Spreadsheets yield one
// sheet per worksheet, in workbook order, and sheets without data rows are
// dropped. In both cases the first non-blank record is the header row.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// CSVSheetName is the sheet name reported for CSV files.
const CSVSheetName = "CSV Data"

// emptyHeaderPrefix names header cells that are blank.
const emptyHeaderPrefix = "__EMPTY"

var (
	// ErrUnsupportedFile is returned for extensions other than .csv, .xlsx, and .xls.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrUnreadableFile is returned when the file container cannot be decoded.
	ErrUnreadableFile = errors.New("unreadable file")
)

// FileFormat identifies the parser used for a file.
type FileFormat string

const (
	FormatCSV         FileFormat = "csv"
	FormatSpreadsheet FileFormat = "spreadsheet"
)

// Sheet is one tabular unit of an uploaded file.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []*ImportRow
}

// ParsedFile is the decoded content of an upload.
type ParsedFile struct {
	Format FileFormat
	Sheets []Sheet
}

// FormatFor returns the parser format for filename's extension.
func FormatFor(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return FormatSpreadsheet, nil
	}
	if ext == "" {
		ext = "(none)"
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
}

// ParseFile decodes data according to filename's extension.
func ParseFile(data []byte, filename string) (*ParsedFile, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}

	var sheets []Sheet
	switch format {
	case FormatCSV:
		var sheet Sheet
		sheet, err = parseCSVSheet(data)
		sheets = []Sheet{sheet}
	case FormatSpreadsheet:
		sheets, err = parseWorkbook(data)
	}
	if err != nil {
		return nil, err
	}
	return &ParsedFile{Format: format, Sheets: sheets}, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseCSVSheet(data []byte) (Sheet, error) {
	sheet := Sheet{Name: CSVSheetName}

	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return sheet, fmt.Errorf("%w: invalid csv: %v", ErrUnreadableFile, err)
	}

	headerSeen := false
	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if isBlankRecord(rec) {
			continue
		}
		if !headerSeen {
			sheet.Headers = uniqueHeaders(rec)
			headerSeen = true
			continue
		}

		row := NewImportRow()
		for i, h := range sheet.Headers {
			if i >= len(rec) {
				break
			}
			row.Set(h, rec[i])
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func parseWorkbook(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer func() { _ = f.Close() }()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadableFile, name, err)
		}

		sheet := Sheet{Name: name}
		headerSeen := false
		for _, cells := range rows {
			if isBlankRecord(cells) {
				continue
			}
			if !headerSeen {
				sheet.Headers = uniqueHeaders(cells)
				headerSeen = true
				continue
			}

			row := NewImportRow()
			for i, h := range sheet.Headers {
				var v any
				if i < len(cells) {
					if c := strings.TrimSpace(cells[i]); c != "" {
						v = c
					}
				}
				row.Set(h, v)
			}
			sheet.Rows = append(sheet.Rows, row)
		}

		if len(sheet.Rows) > 0 {
			sheets = append(sheets, sheet)
		}
	}
	return sheets, nil
}

// uniqueHeaders names blank header cells __EMPTY, __EMPTY_1, ... and
// suffixes repeated names with _1, _2, ...
func uniqueHeaders(cells []string) []string {
	out := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if name == "" {
			name = emptyHeaderPrefix
		}
		if _, dup := seen[name]; dup {
			base := name
			for k := seen[base] + 1; ; k++ {
				candidate := base + "_" + strconv.Itoa(k)
				if _, taken := seen[candidate]; !taken {
					seen[base] = k
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.WriteRune(r)
		}
		data = data[size:]
	}
	return buf.Bytes()
}
