package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New(`ERROR: duplicate key value violates unique constraint "university_name_key" (SQLSTATE 23505)`),
			wantCode:    "DB001",
			wantMessage: "A record with this value already exists",
		},
		{
			name:        "unique constraint maps correctly",
			err:         errors.New("ERROR: unique constraint violated"),
			wantCode:    "DB002",
			wantMessage: "This value must be unique but already exists",
		},
		{
			name:        "foreign key maps correctly",
			err:         errors.New("insert or update on table \"program\" violates foreign key constraint"),
			wantCode:    "DB003",
			wantMessage: "Referenced record does not exist",
		},
		{
			name:        "not-null maps correctly",
			err:         errors.New(`null value in column "name" of relation "university" violates not-null constraint`),
			wantCode:    "DB004",
			wantMessage: "A required column has no value",
		},
		{
			name:        "unresolved reference maps correctly",
			err:         &UnresolvedKeyError{Field: "university", Value: "UCLA", Table: "university"},
			wantCode:    "IMP001",
			wantMessage: "A referenced record was not found",
		},
		{
			name:        "unknown column maps correctly",
			err:         errors.New(`column "partnership" of relation "project" does not exist`),
			wantCode:    "DB005",
			wantMessage: "The destination table has no matching column",
		},
		{
			name:        "bad date maps correctly",
			err:         errors.New(`invalid input syntax for type date: "soon"`),
			wantCode:    "DB006",
			wantMessage: "A value does not fit its destination column",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "DB007",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "transient storage failure maps correctly",
			err:         fmt.Errorf("%w: %w", ErrTransient, errors.New("unexpected EOF")),
			wantCode:    "DB008",
			wantMessage: "Database connection was interrupted",
		},
		{
			name:        "timeout maps correctly",
			err:         errors.New("i/o timeout"),
			wantCode:    "DB009",
			wantMessage: "Operation timed out",
		},
		{
			name:        "cancelled request maps correctly",
			err:         context.Canceled,
			wantCode:    "IMP003",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "file too large maps correctly",
			err:         fmt.Errorf("%w: 20971520 bytes exceeds limit of 10485760", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds maximum size limit (10MB)",
		},
		{
			name:        "bad csv maps to FILE002 before FILE004",
			err:         fmt.Errorf("%w: invalid csv: bare quote", ErrUnreadableFile),
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV",
		},
		{
			name:        "unsupported file maps correctly",
			err:         fmt.Errorf("%w: .txt", ErrUnsupportedFile),
			wantCode:    "FILE003",
			wantMessage: "Invalid file type",
		},
		{
			name:        "unknown table maps correctly",
			err:         fmt.Errorf("%w: %q", ErrUnknownTable, "donors"),
			wantCode:    "TBL001",
			wantMessage: "Unknown table type",
		},
		{
			name:        "busy limiter maps correctly",
			err:         ErrTooManyImports,
			wantCode:    "IMP002",
			wantMessage: "System is busy processing other imports",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "A record with this value already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_DuplicateSentinel(t *testing.T) {
	err := fmt.Errorf("insert row: %w", fmt.Errorf("%w: unique_violation", ErrDuplicate))
	if got := MapError(err).Code; got != "DB001" {
		t.Errorf("MapError(ErrDuplicate).Code = %q, want DB001", got)
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("duplicate key value violates")
	result := FormatUserError(err)

	expected := "A record with this value already exists (Code: DB001). Remove the duplicate row or edit the existing record"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  errors.New("duplicate key"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := errors.New("ERROR: duplicate key value")
		userErr := NewUserError(techErr)

		if userErr.Error() != "A record with this value already exists" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if userErr.User.Code != "DB001" {
			t.Errorf("User.Code = %q, want DB001", userErr.User.Code)
		}
		if !errors.Is(userErr, techErr) {
			t.Error("Unwrap() should return original error")
		}
	})
}
