// Package core provides the business logic for spreadsheet import operations.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/elliotchance/orderedmap/v2"
)

// Storage is the persistence collaborator used by the Importer.
// Satisfied by *postgres.Store.
type Storage interface {
	// Insert stores fields as a new row and returns its surrogate id.
	Insert(ctx context.Context, table string, rec *MappedRecord) (int64, error)

	// InsertOrUpdate inserts fields, or updates the row whose uniqueColumn
	// matches, and returns the surrogate id either way.
	InsertOrUpdate(ctx context.Context, table string, rec *MappedRecord, uniqueColumn string) (int64, error)

	// LookupID finds the id of the row whose column equals value
	// case-insensitively. A missing row is (0, false, nil), never an error.
	LookupID(ctx context.Context, table, column, value string) (int64, bool, error)
}

// ErrTransient marks storage failures caused by connectivity rather than data.
// Storage implementations wrap such errors so errors.Is(err, ErrTransient) holds.
var ErrTransient = errors.New("transient storage failure")

// ErrDuplicate marks writes rejected because a unique value already exists.
var ErrDuplicate = errors.New("duplicate record")

// HeaderMapping routes a normalized header (or header fragment) to a destination field.
type HeaderMapping struct {
	Header string
	Field  string
}

// ForeignKey declares that a mapped field holds a natural key in another table.
type ForeignKey struct {
	Field  string // mapped field holding the natural key
	Table  string // related table
	Column string // lookup column in the related table
	Target string // surrogate id column written on the record
}

// TableDescriptor describes how to recognize and map spreadsheet data for one
// destination table. Descriptors are immutable once registered.
type TableDescriptor struct {
	Key              string
	DestinationTable string
	IdentifyKeywords []string
	RequiredFields   []string

	// HeaderMap is ordered; the first matching entry wins.
	HeaderMap []HeaderMapping

	// ForeignKeys are resolved in declaration order.
	ForeignKeys []ForeignKey

	// UniqueColumn enables insert-or-update when the record carries it.
	UniqueColumn string

	// SplitFullName derives first_name/last_name from full_name and drops full_name.
	SplitFullName bool
}

// Fields returns the distinct destination fields of the header map, in map order.
func (d *TableDescriptor) Fields() []string {
	seen := make(map[string]bool, len(d.HeaderMap))
	out := make([]string, 0, len(d.HeaderMap))
	for _, m := range d.HeaderMap {
		if !seen[m.Field] {
			seen[m.Field] = true
			out = append(out, m.Field)
		}
	}
	return out
}

// fields is an insertion-ordered name to value mapping shared by
// ImportRow and MappedRecord.
type fields struct {
	om *orderedmap.OrderedMap[string, any]
}

func (f *fields) m() *orderedmap.OrderedMap[string, any] {
	if f.om == nil {
		f.om = orderedmap.NewOrderedMap[string, any]()
	}
	return f.om
}

// Set stores v under k. Overwriting keeps the original position.
func (f *fields) Set(k string, v any) { f.m().Set(k, v) }

// Get returns the value stored under k.
func (f *fields) Get(k string) (any, bool) {
	if f.om == nil {
		return nil, false
	}
	return f.om.Get(k)
}

// Has reports whether k is present, even with a nil value.
func (f *fields) Has(k string) bool {
	_, ok := f.Get(k)
	return ok
}

// Delete removes k if present.
func (f *fields) Delete(k string) {
	if f.om != nil {
		f.om.Delete(k)
	}
}

// Len returns the number of keys.
func (f *fields) Len() int {
	if f.om == nil {
		return 0
	}
	return f.om.Len()
}

// Keys returns the keys in insertion order.
func (f *fields) Keys() []string {
	if f.om == nil {
		return nil
	}
	return f.om.Keys()
}

// Values returns the values in key order.
func (f *fields) Values() []any {
	if f.om == nil {
		return nil
	}
	out := make([]any, 0, f.om.Len())
	for el := f.om.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// MarshalJSON writes the mapping as a JSON object preserving key order.
func (f *fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if f.om != nil {
		i := 0
		for el := f.om.Front(); el != nil; el = el.Next() {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(el.Key)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(el.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
			i++
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ImportRow maps original header strings to raw cell values for one data row.
type ImportRow struct{ fields }

// NewImportRow returns an empty row.
func NewImportRow() *ImportRow { return &ImportRow{} }

// MappedRecord maps destination field names to coerced values.
type MappedRecord struct{ fields }

// NewMappedRecord returns an empty record.
func NewMappedRecord() *MappedRecord { return &MappedRecord{} }

// RowError records a row-level failure. Row is 1-based and counts the header
// row, so the first data row is row 2.
type RowError struct {
	Row       int        `json:"row"`
	Sheet     string     `json:"sheet,omitempty"`
	Message   string     `json:"error"`
	Code      string     `json:"code,omitempty"`
	Transient bool       `json:"transient,omitempty"`
	RawRow    *ImportRow `json:"data,omitempty"`
}

// CreatedID pairs a stored row's surrogate id with its source row number.
type CreatedID struct {
	ID    int64  `json:"id"`
	Row   int    `json:"row"`
	Sheet string `json:"sheet,omitempty"`
}

// SheetResult summarizes one processed sheet.
type SheetResult struct {
	Name     string `json:"name"`
	Table    string `json:"table"`
	Rows     int    `json:"rows"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
}

// ImportResult is the ledger produced by one import call.
type ImportResult struct {
	ImportID     string        `json:"importId"`
	Filename     string        `json:"filename"`
	TargetTable  string        `json:"targetTable,omitempty"`
	TotalRows    int           `json:"totalRows"`
	SuccessCount int           `json:"imported"`
	SkippedCount int           `json:"skipped"`
	Errors       []RowError    `json:"errors"`
	CreatedIDs   []CreatedID   `json:"created"`
	Sheets       []SheetResult `json:"sheets"`
	Warnings     []string      `json:"warnings"`
}

// ColumnMatch reports where one source column lands in the destination table.
type ColumnMatch struct {
	Column  string `json:"column"`
	Field   string `json:"dbColumn,omitempty"`
	Matched bool   `json:"matched"`
}

// SheetPreview describes one sheet without writing anything.
type SheetPreview struct {
	Name          string        `json:"name"`
	Columns       []string      `json:"columns"`
	DetectedTable string        `json:"detectedTable,omitempty"`
	TableName     string        `json:"tableName,omitempty"`
	RowCount      int           `json:"rowCount"`
	SampleRows    []*ImportRow  `json:"preview"`
	ColumnMapping []ColumnMatch `json:"columnMapping,omitempty"`
}

// PreviewResult is the read-only report produced by the Previewer.
type PreviewResult struct {
	Filename string         `json:"filename"`
	Sheets   []SheetPreview `json:"sheets"`
}

// ImportProgress is reported after every processed row.
type ImportProgress struct {
	Sheet     string
	Table     string
	Row       int
	TotalRows int
	Imported  int
	Skipped   int
	Errors    int
}

// ProgressFunc receives progress updates during an import.
type ProgressFunc func(ImportProgress)
