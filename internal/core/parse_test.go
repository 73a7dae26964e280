package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		filename string
		want     core.FileFormat
		wantErr  bool
	}{
		{"programs.csv", core.FormatCSV, false},
		{"PROGRAMS.CSV", core.FormatCSV, false},
		{"campus.xlsx", core.FormatSpreadsheet, false},
		{"legacy.xls", core.FormatSpreadsheet, false},
		{"notes.txt", "", true},
		{"README", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := core.FormatFor(tt.filename)
			if tt.wantErr {
				require.ErrorIs(t, err, core.ErrUnsupportedFile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ============================================================================
// CSV
// ============================================================================

func TestParseFile_CSV(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, csvFile(
		"",
		" School , Program Name,",
		"UCLA,\"Nutrition, Advanced\"",
		",,",
		"USC,Food Systems,extra,overflow",
	)...)

	parsed, err := core.ParseFile(data, "programs.csv")
	require.NoError(t, err)
	require.Equal(t, core.FormatCSV, parsed.Format)
	require.Len(t, parsed.Sheets, 1)

	sheet := parsed.Sheets[0]
	assert.Equal(t, core.CSVSheetName, sheet.Name)
	assert.Equal(t, []string{"School", "Program Name", "__EMPTY"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)

	first := sheet.Rows[0]
	assert.Equal(t, []string{"School", "Program Name"}, first.Keys(), "short records stop at the last cell")
	v, _ := first.Get("Program Name")
	assert.Equal(t, "Nutrition, Advanced", v)

	second := sheet.Rows[1]
	assert.Equal(t, 3, second.Len(), "cells past the header are ignored")
	v, _ = second.Get("__EMPTY")
	assert.Equal(t, "extra", v)
}

func TestParseFile_CSVHeaderOnly(t *testing.T) {
	parsed, err := core.ParseFile(csvFile("Name,City"), "u.csv")
	require.NoError(t, err)
	require.Len(t, parsed.Sheets, 1)
	assert.Empty(t, parsed.Sheets[0].Rows)
}

// ============================================================================
// Spreadsheets
// ============================================================================

func TestParseFile_Workbook(t *testing.T) {
	data := buildWorkbook(t,
		testSheet{name: "Universities", rows: [][]any{
			{"Name", "City"},
			{"UCLA", "   "},
			{"USC", " Los Angeles "},
		}},
		testSheet{name: "Empty", rows: [][]any{
			{"Only", "Headers"},
		}},
		testSheet{name: "Courses", rows: [][]any{
			{"Course Name", "Credits"},
			{"Plant Nutrition", 3},
		}},
	)

	parsed, err := core.ParseFile(data, "campus.xlsx")
	require.NoError(t, err)
	assert.Equal(t, core.FormatSpreadsheet, parsed.Format)

	require.Len(t, parsed.Sheets, 2, "sheets without data rows are dropped")
	assert.Equal(t, "Universities", parsed.Sheets[0].Name)
	assert.Equal(t, "Courses", parsed.Sheets[1].Name)

	ucla := parsed.Sheets[0].Rows[0]
	assert.Equal(t, 2, ucla.Len())
	v, ok := ucla.Get("City")
	assert.True(t, ok)
	assert.Nil(t, v, "blank cells are nil")

	v, _ = parsed.Sheets[0].Rows[1].Get("City")
	assert.Equal(t, "Los Angeles", v, "cells are trimmed")

	v, _ = parsed.Sheets[1].Rows[0].Get("Credits")
	assert.Equal(t, "3", v)
}

func TestParseFile_CorruptWorkbook(t *testing.T) {
	_, err := core.ParseFile([]byte("PK not really"), "broken.xlsx")
	require.ErrorIs(t, err, core.ErrUnreadableFile)
}
