package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

const importLogTable = "import_log"

// DefaultHistoryLimit is the page size used when ImportLogOptions.Limit is unset.
const DefaultHistoryLimit = 50

// maxHistoryLimit caps ImportLogOptions.Limit.
const maxHistoryLimit = 500

var importLogColumns = []string{
	"id", "filename", "target_table", "user_id", "username",
	"total_rows", "imported", "skipped", "error_count", "warning_count",
	"duration_ms", "created_at",
}

// ImportLogEntry is one completed import.
type ImportLogEntry struct {
	ID           uuid.UUID `json:"importId"`
	Filename     string    `json:"filename"`
	TargetTable  string    `json:"targetTable"`
	UserID       string    `json:"userId,omitempty"`
	Username     string    `json:"username,omitempty"`
	TotalRows    int       `json:"totalRows"`
	Imported     int       `json:"imported"`
	Skipped      int       `json:"skipped"`
	ErrorCount   int       `json:"errors"`
	WarningCount int       `json:"warnings"`
	DurationMS   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Actor identifies who ran an import.
type Actor struct {
	UserID   string
	Username string
}

// RecordImport writes a summary of result to the import log.
func (s *Store) RecordImport(ctx context.Context, result *core.ImportResult, actor Actor, duration time.Duration) error {
	id, err := uuid.Parse(result.ImportID)
	if err != nil {
		return fmt.Errorf("import id %q: %w", result.ImportID, err)
	}

	query, args, err := s.sb.
		Insert(importLogTable).
		Columns(importLogColumns[:len(importLogColumns)-1]...).
		Values(
			id,
			result.Filename,
			result.TargetTable,
			nullIfEmpty(actor.UserID),
			nullIfEmpty(actor.Username),
			result.TotalRows,
			result.SuccessCount,
			result.SkippedCount,
			len(result.Errors),
			len(result.Warnings),
			duration.Milliseconds(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build import log insert: %w", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("record import: %w", classify(err))
	}
	return nil
}

// ImportLogOptions filters ListImports.
type ImportLogOptions struct {
	TargetTable string
	Limit       int
	Offset      int
}

// ImportLogPage is one page of import log entries, newest first.
type ImportLogPage struct {
	Entries    []ImportLogEntry `json:"entries"`
	TotalCount int64            `json:"totalCount"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

// ListImports returns recent import log entries, newest first.
func (s *Store) ListImports(ctx context.Context, opts ImportLogOptions) (*ImportLogPage, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	where := squirrel.And{}
	if opts.TargetTable != "" {
		where = append(where, squirrel.Eq{"target_table": opts.TargetTable})
	}

	countQuery, countArgs, err := s.sb.Select("COUNT(*)").From(importLogTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build import log count: %w", err)
	}
	var total int64
	if err := s.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count imports: %w", classify(err))
	}

	query, args, err := s.sb.
		Select(importLogColumns...).
		From(importLogTable).
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build import log query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", classify(err))
	}
	defer rows.Close()

	page := &ImportLogPage{Entries: []ImportLogEntry{}, TotalCount: total, Limit: opts.Limit, Offset: opts.Offset}
	for rows.Next() {
		var (
			e                ImportLogEntry
			userID, username *string
		)
		if err := rows.Scan(
			&e.ID, &e.Filename, &e.TargetTable, &userID, &username,
			&e.TotalRows, &e.Imported, &e.Skipped, &e.ErrorCount, &e.WarningCount,
			&e.DurationMS, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		if userID != nil {
			e.UserID = *userID
		}
		if username != nil {
			e.Username = *username
		}
		page.Entries = append(page.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list imports: %w", classify(err))
	}
	return page, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
