// Package core provides the spreadsheet import pipeline.
//
// The package holds all import logic independent of any transport or
// database driver. The web server and the importctl CLI both drive it through
// [Importer] and [Previewer]; persistence goes through the [Storage]
// interface, which internal/storage/postgres implements.
//
// # Table Registry
//
// Each destination table is described by a [TableDescriptor]: the header
// variants that map onto its columns, its foreign keys, an optional upsert
// column, and the keywords used for detection. Descriptors are registered by
// the tables subpackage at init time:
//
//	core.Register(core.TableDescriptor{
//	    Key:              "universities",
//	    DestinationTable: "university",
//	    IdentifyKeywords: []string{"university", "school"},
//	    UniqueColumn:     "name",
//	    HeaderMap: []core.HeaderMapping{
//	        {Header: "university name", Field: "name"},
//	        {Header: "city", Field: "city"},
//	    },
//	})
//
// Header keys are normalized with [NormalizeHeader] when registered, so
// "University Name", "university_name" and "UNIVERSITY-NAME" all match.
//
// # Pipeline
//
// An import runs these stages for every sheet of the upload:
//
//  1. [ParseFile] decodes CSV or workbook bytes into sheets of ordered rows.
//  2. [Registry.DetectSheet] picks a table from the sheet name, falling back
//     to header scoring with [Registry.Detect].
//  3. [MapRow] maps each row onto destination columns and applies
//     [CoerceValue] for booleans, dates and integers.
//  4. [ResolveForeignKeys] replaces natural keys such as a university name
//     with the referenced row's id.
//  5. The record is written with Storage.Insert, or Storage.InsertOrUpdate
//     when the table has an upsert column.
//
// Row failures never stop the import. They are collected as [RowError]
// values on the [ImportResult] alongside created ids and per-sheet counts.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// category carries a code for support reference:
//
//   - DB001-DB010: database errors (duplicates, constraints, connectivity)
//   - IMP001-IMP004: import errors (unresolved references, busy, cancelled)
//   - FILE001-FILE005: upload errors (size, type, unreadable, missing)
//   - TBL001: unknown table
//   - AUTH001-AUTH003, RATE001: access errors raised by the web layer
//
// # Concurrency
//
// [ImportLimiter] bounds how many imports run at once. Callers Acquire a slot
// before [Importer.Import] and Release it afterwards; on shutdown
// [ImportLimiter.WaitForDrain] waits for running imports to finish.
package core
