package core_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core/tables"
)

// persisted is one Insert or InsertOrUpdate call seen by memStore.
type persisted struct {
	Table  string
	Unique string
	Fields map[string]any
	Keys   []string
}

// memStore is an in-memory core.Storage.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	natural   map[string]int64 // "table.column.lower(value)" -> id
	writes    []persisted
	insertErr map[string]error // by table
	lookupErr error
	lookups   int
}

func newMemStore() *memStore {
	return &memStore{
		nextID:    100,
		natural:   make(map[string]int64),
		insertErr: make(map[string]error),
	}
}

func naturalKey(table, column, value string) string {
	return fmt.Sprintf("%s.%s.%s", table, column, strings.ToLower(strings.TrimSpace(value)))
}

// seed registers an existing row reachable by LookupID.
func (m *memStore) seed(table, column, value string, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.natural[naturalKey(table, column, value)] = id
}

func (m *memStore) Insert(ctx context.Context, table string, rec *core.MappedRecord) (int64, error) {
	return m.write(table, rec, "")
}

func (m *memStore) InsertOrUpdate(ctx context.Context, table string, rec *core.MappedRecord, uniqueColumn string) (int64, error) {
	return m.write(table, rec, uniqueColumn)
}

func (m *memStore) write(table string, rec *core.MappedRecord, unique string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.insertErr[table]; err != nil {
		return 0, err
	}

	p := persisted{Table: table, Unique: unique, Fields: map[string]any{}, Keys: rec.Keys()}
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		p.Fields[k] = v
	}
	m.writes = append(m.writes, p)
	m.nextID++
	return m.nextID, nil
}

func (m *memStore) LookupID(ctx context.Context, table, column, value string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	if m.lookupErr != nil {
		return 0, false, m.lookupErr
	}
	id, ok := m.natural[naturalKey(table, column, value)]
	return id, ok, nil
}

func (m *memStore) written() []persisted {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]persisted(nil), m.writes...)
}

// testSheet describes one worksheet for buildWorkbook. rows[0] is the header.
type testSheet struct {
	name string
	rows [][]any
}

// buildWorkbook writes sheets into an in-memory .xlsx file.
func buildWorkbook(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := append([]any(nil), row...)
			require.NoError(t, f.SetSheetRow(s.name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// newTestRegistry returns a registry holding every production descriptor.
func newTestRegistry(t *testing.T) *core.Registry {
	t.Helper()
	r := core.NewRegistry()
	tables.RegisterAll(r)
	return r
}

func csvFile(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}
