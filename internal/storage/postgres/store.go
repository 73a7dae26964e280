// Package postgres persists mapped import records with pgx.
//
// Store implements core.Storage. Statements are built with squirrel using
// $n placeholders; table and column names come from the table descriptors
// and are validated and quoted before use.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

// Querier is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx used by Store.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	// ErrInvalidIdentifier is returned for table or column names that are
	// not plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrEmptyRecord is returned when asked to write a record with no fields.
	ErrEmptyRecord = errors.New("record has no fields")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteIdent(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// Store writes import records to PostgreSQL.
type Store struct {
	db Querier
	sb squirrel.StatementBuilderType
}

var _ core.Storage = (*Store)(nil)

// New returns a Store over db.
func New(db Querier) *Store {
	return &Store{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert adds rec to table and returns the generated id.
func (s *Store) Insert(ctx context.Context, table string, rec *core.MappedRecord) (int64, error) {
	q, _, err := s.insertQuery(table, rec)
	if err != nil {
		return 0, err
	}
	return s.returningID(ctx, q.Suffix("RETURNING id"))
}

// InsertOrUpdate inserts rec, or updates the row whose uniqueColumn matches,
// and returns the row's id either way.
func (s *Store) InsertOrUpdate(ctx context.Context, table string, rec *core.MappedRecord, uniqueColumn string) (int64, error) {
	q, cols, err := s.insertQuery(table, rec)
	if err != nil {
		return 0, err
	}
	conflict, err := quoteIdent(uniqueColumn)
	if err != nil {
		return 0, err
	}

	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == conflict {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	// DO NOTHING would return no row, so a key-only record rewrites the key.
	if len(sets) == 0 {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", conflict, conflict))
	}

	q = q.Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s RETURNING id",
		conflict, strings.Join(sets, ", ")))
	return s.returningID(ctx, q)
}

// LookupID finds the id of the first row in table whose column equals value,
// ignoring case. A missing row is (0, false, nil).
func (s *Store) LookupID(ctx context.Context, table, column, value string) (int64, bool, error) {
	tbl, err := quoteIdent(table)
	if err != nil {
		return 0, false, err
	}
	col, err := quoteIdent(column)
	if err != nil {
		return 0, false, err
	}

	query, args, err := s.sb.
		Select("id").
		From(tbl).
		Where(squirrel.Expr(fmt.Sprintf("LOWER(%s) = LOWER(?)", col), value)).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build lookup: %w", err)
	}

	var id int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, classify(err)
	}
	return id, true, nil
}

func (s *Store) insertQuery(table string, rec *core.MappedRecord) (squirrel.InsertBuilder, []string, error) {
	tbl, err := quoteIdent(table)
	if err != nil {
		return squirrel.InsertBuilder{}, nil, err
	}
	if rec == nil || rec.Len() == 0 {
		return squirrel.InsertBuilder{}, nil, ErrEmptyRecord
	}

	keys := rec.Keys()
	cols := make([]string, 0, len(keys))
	vals := make([]any, 0, len(keys))
	for _, k := range keys {
		c, err := quoteIdent(k)
		if err != nil {
			return squirrel.InsertBuilder{}, nil, err
		}
		v, _ := rec.Get(k)
		cols = append(cols, c)
		vals = append(vals, columnValue(k, v))
	}
	return s.sb.Insert(tbl).Columns(cols...).Values(vals...), cols, nil
}

func (s *Store) returningID(ctx context.Context, q squirrel.InsertBuilder) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// columnValue sends YYYY-MM-DD strings for date columns as pgtype.Date.
func columnValue(column string, v any) any {
	if s, ok := v.(string); ok && core.IsDateField(column) {
		if d := core.ParseDate(s); d.Valid {
			return d
		}
	}
	return v
}
