package tables_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core/tables"
)

func TestRegisterAll(t *testing.T) {
	r := core.NewRegistry()
	require.NotPanics(t, func() { tables.RegisterAll(r) })
	assert.Equal(t, len(tables.Descriptors()), r.Len())

	assert.Panics(t, func() { tables.RegisterAll(r) }, "second registration must conflict")
}

func TestDescriptors_UniqueColumns(t *testing.T) {
	want := map[string]string{
		"universities": "name",
		"semesters":    "name",
		"staff":        "email",
		"students":     "email",
	}

	for _, d := range tables.Descriptors() {
		assert.Equal(t, want[d.Key], d.UniqueColumn, d.Key)
	}
}

func TestDescriptors_UniqueColumnIsMapped(t *testing.T) {
	for _, d := range tables.Descriptors() {
		if d.UniqueColumn == "" {
			continue
		}
		assert.Contains(t, d.Fields(), d.UniqueColumn, d.Key)
	}
}

func TestDescriptors_OnlyStudentsSplitNames(t *testing.T) {
	for _, d := range tables.Descriptors() {
		assert.Equal(t, d.Key == "students", d.SplitFullName, d.Key)
	}
}

func TestDescriptors_ForeignKeys(t *testing.T) {
	r := core.NewRegistry()
	tables.RegisterAll(r)

	tests := []struct {
		key    string
		fields []string
	}{
		{"programs", []string{"university", "staff_name"}},
		{"courses", []string{"program"}},
		{"partnerships", []string{"semester", "program", "course"}},
		{"outreach_contacts", []string{"university"}},
		{"universities", nil},
		{"projects", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d, ok := r.Get(tt.key)
			require.True(t, ok)

			var got []string
			for _, fk := range d.ForeignKeys {
				got = append(got, fk.Field)
				_, known := r.Get(tableKey(r, fk.Table))
				assert.True(t, known, "lookup table %s is not importable", fk.Table)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func tableKey(r *core.Registry, destination string) string {
	for _, d := range r.All() {
		if d.DestinationTable == destination {
			return d.Key
		}
	}
	return ""
}
