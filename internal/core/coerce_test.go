package core_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

// ============================================================================
// Field classification
// ============================================================================

func TestFieldClassification(t *testing.T) {
	assert.True(t, core.IsBooleanField("is_active"))
	assert.True(t, core.IsBooleanField("is_anything"))
	assert.True(t, core.IsBooleanField("ty_note_sent"))
	assert.True(t, core.IsBooleanField("includes_dairy_content"))
	assert.False(t, core.IsBooleanField("status"))

	assert.True(t, core.IsDateField("start_date"))
	assert.True(t, core.IsDateField("partnership_start_date"))
	assert.True(t, core.IsDateField("created_at"))
	assert.False(t, core.IsDateField("name"))

	assert.True(t, core.IsIntegerField("credits"))
	assert.True(t, core.IsIntegerField("students_participating"))
	assert.False(t, core.IsIntegerField("phone"))
}

// ============================================================================
// CoerceValue
// ============================================================================

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		field string
		want  any
	}{
		{"nil stays nil", nil, "name", nil},
		{"empty string is nil", "", "name", nil},
		{"whitespace trims to empty", "   ", "notes", ""},
		{"strings are trimmed", "  UCLA ", "name", "UCLA"},
		{"numbers become strings for text fields", 5551234.0, "phone", "5551234"},

		{"yes is true", "Yes", "is_active", true},
		{"x is true", "x", "ty_note_sent", true},
		{"check mark is true", "✓", "includes_dairy_content", true},
		{"heavy check mark is true", "✔", "is_current", true},
		{"1 is true", "1", "is_current", true},
		{"no is false", "no", "is_active", false},
		{"anything else is false", "maybe", "is_active", false},
		{"native bool kept", true, "is_active", true},
		{"blank boolean is false", " ", "is_active", false},

		{"iso date", "2024-09-01", "start_date", "2024-09-01"},
		{"us date", "9/1/2024", "start_date", "2024-09-01"},
		{"padded us date", "09/01/2024", "end_date", "2024-09-01"},
		{"long month", "September 1, 2024", "start_date", "2024-09-01"},
		{"rfc3339", "2024-09-01T15:04:05Z", "created_at", "2024-09-01"},
		{"two digit year", "9/1/24", "start_date", "2024-09-01"},
		{"excel serial", 45536.0, "start_date", "2024-09-01"},
		{"excel serial string", "45536", "start_date", "2024-09-01"},
		{"time value", time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC), "start_date", "2024-09-01"},
		{"unparseable date is nil", "next spring", "start_date", nil},
		{"blank date is nil", "  ", "start_date", nil},
		{"bare year is january first", "2024", "start_date", "2024-01-01"},
		{"day first dotted", "15.03.2024", "start_date", "2024-03-15"},
		{"day first slashed", "13/01/2024", "start_date", "2024-01-13"},
		{"day first two digit year", "13/01/24", "start_date", "2024-01-13"},
		{"ambiguous date reads month first", "01/02/2024", "start_date", "2024-01-02"},
		{"ambiguous dotted date reads month first", "03.04.2024", "start_date", "2024-03-04"},
		{"zero serial is nil", 0.0, "start_date", nil},

		{"integer string", "25", "credits", int64(25)},
		{"leading integer", "12 students", "students_participating", int64(12)},
		{"decimal truncated", "3.7", "credits", int64(3)},
		{"float truncated", 30.9, "total_in_class", int64(30)},
		{"negative", "-4", "max_students", int64(-4)},
		{"non numeric is nil", "about twenty", "max_students", nil},
		{"float above int64 is nil", 1e20, "credits", nil},
		{"float below int64 is nil", -1e20, "credits", nil},
		{"blank integer is nil", " ", "credits", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.CoerceValue(tt.raw, tt.field))
		})
	}
}

func TestCoerceValue_BooleanNeverNil(t *testing.T) {
	faker := gofakeit.New(42)

	for i := 0; i < 200; i++ {
		raw := faker.Word()
		got := core.CoerceValue(raw, "is_active")
		_, isBool := got.(bool)
		assert.True(t, isBool, "input %q produced %#v", raw, got)
	}
}

func TestCoerceValue_DateRoundTrip(t *testing.T) {
	faker := gofakeit.New(42)
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2035, 12, 31, 0, 0, 0, 0, time.UTC)

	layouts := []string{core.DateLayout, "1/2/2006", "01/02/2006", "January 2, 2006"}
	for i := 0; i < 200; i++ {
		d := faker.DateRange(start, end)
		want := d.Format(core.DateLayout)
		for _, layout := range layouts {
			got := core.CoerceValue(d.Format(layout), "start_date")
			assert.Equal(t, want, got, "layout %s", layout)
		}
	}
}

func TestParseDate(t *testing.T) {
	d := core.ParseDate("2024-02-29")
	require.True(t, d.Valid)
	assert.Equal(t, 2024, d.Time.Year())
	assert.Equal(t, time.February, d.Time.Month())
	assert.Equal(t, 29, d.Time.Day())

	assert.False(t, core.ParseDate("").Valid)
	assert.False(t, core.ParseDate("2023-02-29").Valid)
	assert.False(t, core.ParseDate("99999999").Valid)
}
