package core_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

func TestPreview_CSV(t *testing.T) {
	lines := []string{"School,Program Name,Mascot"}
	for i := 0; i < 8; i++ {
		lines = append(lines, fmt.Sprintf("UCLA,Program %d,Bruin", i))
	}

	p := core.NewPreviewer(newTestRegistry(t))
	res, err := p.Preview(context.Background(), csvFile(lines...), "programs.csv", "")
	require.NoError(t, err)

	assert.Equal(t, "programs.csv", res.Filename)
	require.Len(t, res.Sheets, 1)

	sheet := res.Sheets[0]
	assert.Equal(t, core.CSVSheetName, sheet.Name)
	assert.Equal(t, "programs", sheet.DetectedTable)
	assert.Equal(t, "program", sheet.TableName)
	assert.Equal(t, 8, sheet.RowCount)
	assert.Len(t, sheet.SampleRows, 5)
	assert.Equal(t, []core.ColumnMatch{
		{Column: "School", Field: "university", Matched: true},
		{Column: "Program Name", Field: "name", Matched: true},
		{Column: "Mascot", Matched: false},
	}, sheet.ColumnMapping)
}

func TestPreview_UndetectedSheetListed(t *testing.T) {
	data := buildWorkbook(t,
		testSheet{name: "Scratch", rows: [][]any{{"Foo"}, {"bar"}}},
	)

	res, err := core.NewPreviewer(newTestRegistry(t)).Preview(context.Background(), data, "x.xlsx", "")
	require.NoError(t, err)
	require.Len(t, res.Sheets, 1)
	assert.Empty(t, res.Sheets[0].DetectedTable)
	assert.Nil(t, res.Sheets[0].ColumnMapping)
	assert.Equal(t, []string{"Foo"}, res.Sheets[0].Columns)
}

func TestPreview_ExplicitTarget(t *testing.T) {
	p := core.NewPreviewer(newTestRegistry(t))

	res, err := p.Preview(context.Background(), csvFile("Name", "UCLA"), "u.csv", "universities")
	require.NoError(t, err)
	assert.Equal(t, "universities", res.Sheets[0].DetectedTable)

	_, err = p.Preview(context.Background(), csvFile("Name", "UCLA"), "u.csv", "donors")
	require.ErrorIs(t, err, core.ErrUnknownTable)
}

func TestPreview_FileTooLarge(t *testing.T) {
	p := core.NewPreviewer(newTestRegistry(t), core.WithMaxFileSize(8))
	_, err := p.Preview(context.Background(), csvFile("University Name", "UCLA"), "u.csv", "")
	require.ErrorIs(t, err, core.ErrFileTooLarge)
}
