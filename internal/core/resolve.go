package core

import (
	"context"
	"fmt"
	"strings"
)

// UnresolvedKeyError reports a natural key with no matching row.
type UnresolvedKeyError struct {
	Field string
	Value string
	Table string
}

func (e *UnresolvedKeyError) Error() string {
	return fmt.Sprintf("%s %q not found in %s", e.Field, e.Value, e.Table)
}

// LookupError reports a storage fault during a foreign key lookup.
type LookupError struct {
	Field string
	Table string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s in %s: %v", e.Field, e.Table, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ResolveForeignKeys swaps each declared natural-key field on rec for its
// surrogate id column. Absent or blank values are dropped without a lookup.
// The first unresolvable key stops resolution with *UnresolvedKeyError; a
// storage fault stops it with *LookupError. rec must be discarded on error.
func ResolveForeignKeys(ctx context.Context, store Storage, d *TableDescriptor, rec *MappedRecord) error {
	for _, fk := range d.ForeignKeys {
		raw, ok := rec.Get(fk.Field)
		if !ok {
			continue
		}
		rec.Delete(fk.Field)
		if raw == nil {
			continue
		}

		value := strings.TrimSpace(fmt.Sprint(raw))
		if value == "" {
			continue
		}

		id, found, err := store.LookupID(ctx, fk.Table, fk.Column, value)
		if err != nil {
			return &LookupError{Field: fk.Field, Table: fk.Table, Err: err}
		}
		if !found {
			return &UnresolvedKeyError{Field: fk.Field, Value: value, Table: fk.Table}
		}
		rec.Set(fk.Target, id)
	}
	return nil
}
