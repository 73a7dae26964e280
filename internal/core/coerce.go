package core

// coerce.go converts raw cell values into the types expected by destination
// fields. The field name alone decides the conversion:
//
//   - boolean fields: "is_" prefix or the booleanFields allow-list
//   - date fields: name contains "date" or ends with "_at"
//   - integer fields: the integerFields allow-list
//   - everything else: trimmed string
//
// Coercion never fails. Unparseable dates and integers become nil.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xuri/excelize/v2"
)

// DateLayout is the calendar-date format produced for date fields.
const DateLayout = "2006-01-02"

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are moved
// to the previous century.
var TwoDigitYearPivot = 20

var booleanFields = map[string]bool{
	"ty_note_sent":           true,
	"includes_dairy_content": true,
	"is_active":              true,
	"is_current":             true,
}

var integerFields = map[string]bool{
	"students_participating": true,
	"total_in_class":         true,
	"credits":                true,
	"max_students":           true,
}

var affirmativeTokens = map[string]bool{
	"yes": true, "true": true, "1": true, "y": true, "x": true,
	"\u2713": true, "\u2714": true,
}

var (
	// Month-first layouts come first, so ambiguous dates like 01/02/2024 read as January 2.
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "01-02-06", "1.2.06", "01.02.06",
		"2/1/06", "02/01/06", "2-1-06", "02-01-06", "2.1.06", "02.01.06",
	}
	fourDigitYearLayouts = []string{
		DateLayout, time.RFC3339, time.RFC3339Nano,
		"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02 15:04",
		"2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"1/2/2006 15:04", "1/2/2006 3:04:05 PM",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006", "Mon, Jan 2, 2006",
		"02-Jan-06", "2-Jan-2006",
		"20060102",
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
	}
)

// Excel serial day range accepted as dates (1900-01-01 through 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// IsBooleanField reports whether field follows the boolean naming convention.
func IsBooleanField(field string) bool {
	return strings.HasPrefix(field, "is_") || booleanFields[field]
}

// IsDateField reports whether field follows the date naming convention.
func IsDateField(field string) bool {
	return strings.Contains(field, "date") || strings.HasSuffix(field, "_at")
}

// IsIntegerField reports whether field is on the integer allow-list.
func IsIntegerField(field string) bool {
	return integerFields[field]
}

// CoerceValue converts raw into the semantic type for field.
// Results are nil, bool, int64, or string.
func CoerceValue(raw any, field string) any {
	if isEmpty(raw) {
		return nil
	}

	switch {
	case IsBooleanField(field):
		return toBool(raw)
	case IsDateField(field):
		if s, ok := toDate(raw); ok {
			return s
		}
		return nil
	case IsIntegerField(field):
		if n, ok := toInt(raw); ok {
			return n
		}
		return nil
	default:
		return strings.TrimSpace(stringify(raw))
	}
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *string:
		return v == nil || *v == ""
	}
	return false
}

func toBool(raw any) bool {
	if b, ok := raw.(bool); ok {
		return b
	}
	return affirmativeTokens[strings.ToLower(strings.TrimSpace(stringify(raw)))]
}

// toDate formats raw as YYYY-MM-DD.
func toDate(raw any) (string, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(DateLayout), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return v.Format(DateLayout), true
	case pgtype.Date:
		if !v.Valid {
			return "", false
		}
		return v.Time.Format(DateLayout), true
	case float64:
		return serialToDate(v)
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	}

	d := ParseDate(stringify(raw))
	if !d.Valid {
		return "", false
	}
	return d.Time.Format(DateLayout), true
}

// ParseDate parses s using the accepted date layouts (month-first before
// day-first), then as a bare year, then as an Excel serial day number.
// Returns Valid=false when nothing matches.
func ParseDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	// A bare four-digit number is a year, not a serial day.
	if len(s) == 4 {
		if y, err := strconv.Atoi(s); err == nil && y >= 1000 {
			return pgtype.Date{Time: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if d, ok := serialToDate(f); ok {
			t, _ := time.Parse(DateLayout, d)
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	return pgtype.Date{Valid: false}
}

func serialToDate(f float64) (string, bool) {
	if math.IsNaN(f) || f < minExcelSerial || f > maxExcelSerial {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}

// toInt parses the leading integer of raw: "12 students" is 12, "3.7" is 3.
func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if math.IsNaN(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(math.Trunc(v)), true
	case bool:
		return 0, false
	}

	s := strings.TrimSpace(stringify(raw))
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(DateLayout)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
