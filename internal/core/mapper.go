package core

import (
	"fmt"
	"strings"
	"unicode"
)

// Student name fields used by full-name splitting.
const (
	FieldFullName  = "full_name"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"

	unknownLastName = "Unknown"
)

// MatchHeader returns the destination field for a raw header. An entry whose
// key equals the normalized header wins outright; otherwise the first entry
// in map order whose key is contained in the header wins.
func (d *TableDescriptor) MatchHeader(header string) (string, bool) {
	h := NormalizeHeader(header)
	if h == "" {
		return "", false
	}
	for _, m := range d.HeaderMap {
		if m.Header == h {
			return m.Field, true
		}
	}
	for _, m := range d.HeaderMap {
		if strings.Contains(h, m.Header) {
			return m.Field, true
		}
	}
	return "", false
}

// MapRow builds a destination record from row. Later headers that land on
// the same field overwrite earlier ones. MapRow has no side effects.
func MapRow(row *ImportRow, d *TableDescriptor) *MappedRecord {
	rec := NewMappedRecord()
	if row == nil || d == nil {
		return rec
	}

	for _, header := range row.Keys() {
		field, ok := d.MatchHeader(header)
		if !ok {
			continue
		}
		raw, _ := row.Get(header)
		rec.Set(field, CoerceValue(raw, field))
	}

	if d.SplitFullName {
		splitFullName(rec)
	}
	return rec
}

// splitFullName fills first_name and last_name from full_name when no first
// name was given, then drops full_name.
func splitFullName(rec *MappedRecord) {
	full, ok := rec.Get(FieldFullName)
	if !ok {
		return
	}
	rec.Delete(FieldFullName)

	if first, ok := rec.Get(FieldFirstName); ok && first != nil {
		return
	}
	if full == nil {
		return
	}

	name := strings.TrimSpace(fmt.Sprint(full))
	if name == "" {
		return
	}
	first, last := name, unknownLastName
	if i := strings.IndexFunc(name, unicode.IsSpace); i >= 0 {
		first = name[:i]
		if rest := strings.TrimSpace(name[i:]); rest != "" {
			last = rest
		}
	}
	rec.Set(FieldFirstName, first)
	rec.Set(FieldLastName, last)
}

// MapColumns reports the destination field for every column, including
// columns that match nothing.
func (d *TableDescriptor) MapColumns(columns []string) []ColumnMatch {
	out := make([]ColumnMatch, len(columns))
	for i, col := range columns {
		field, ok := d.MatchHeader(col)
		out[i] = ColumnMatch{Column: col, Field: field, Matched: ok}
	}
	return out
}
