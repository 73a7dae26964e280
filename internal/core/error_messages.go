package core

// # Error Codes Reference
//
// Every error shown to an operator carries a code that support staff can look
// up here. Codes are grouped by category.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this value already exists
//	        Patterns: "duplicate key", or errors.Is(err, ErrDuplicate)
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key: Referenced record does not exist
//	        Patterns: "violates foreign key", "foreign key constraint"
//	DB004 - Missing value: A required column has no value
//	        Patterns: "violates not-null"
//	DB005 - Unknown column: The destination table has no such column
//	        Patterns: "does not exist"
//	DB006 - Bad value: A value does not fit the destination column
//	        Patterns: "invalid input syntax", "out of range"
//	DB007 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//	DB008 - Connection lost: Database connection was interrupted
//	        Patterns: "connection reset", "transient storage failure"
//	DB009 - Timeout: Operation timed out
//	        Patterns: "timeout"
//	DB010 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Unresolved reference: A referenced record was not found
//	         Patterns: "not found in"
//	IMP002 - System busy: Too many imports in progress
//	         Patterns: "too many concurrent imports"
//	IMP003 - Request cancelled
//	         Patterns: "context canceled"
//	IMP004 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit (10MB)
//	FILE002 - Invalid CSV: File is not a valid CSV
//	FILE003 - Unsupported type: Only .csv, .xlsx and .xls files are accepted
//	FILE004 - Unreadable spreadsheet: The workbook could not be opened
//	FILE005 - No file: No file was provided
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Unknown table: Table type is not configured
//
// # Authentication Errors (AUTH001-AUTH099)
//
//	AUTH001 - Authentication required
//	AUTH002 - Invalid token
//	AUTH003 - Admin access required
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the server logs for the technical
// error logged alongside the request id.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Database constraint errors
	// =========================================================================
	{"duplicate key", duplicateMessage},
	{"unique constraint", UserMessage{
		Message: "This value must be unique but already exists",
		Action:  "Check for duplicate entries in your file",
		Code:    "DB002",
	}},
	{"violates unique", UserMessage{
		Message: "A duplicate value was found",
		Action:  "Review your data for duplicate key values",
		Code:    "DB002",
	}},
	{"violates foreign key", UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Import the parent records first",
		Code:    "DB003",
	}},
	{"foreign key constraint", UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Import the parent records first",
		Code:    "DB003",
	}},
	{"violates not-null", UserMessage{
		Message: "A required column has no value",
		Action:  "Fill in the required columns for this table",
		Code:    "DB004",
	}},

	// =========================================================================
	// Import errors that must win over the generic database patterns below
	// =========================================================================
	{"not found in", UserMessage{
		Message: "A referenced record was not found",
		Action:  "Import the referenced records first or correct the spelling",
		Code:    "IMP001",
	}},
	{"too many concurrent imports", UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}},

	// =========================================================================
	// Database schema and value errors
	// =========================================================================
	{"does not exist", UserMessage{
		Message: "The destination table has no matching column",
		Action:  "Remove or rename the column in your file",
		Code:    "DB005",
	}},
	{"invalid input syntax", UserMessage{
		Message: "A value does not fit its destination column",
		Action:  "Check dates and numbers in this row",
		Code:    "DB006",
	}},
	{"out of range", UserMessage{
		Message: "A value does not fit its destination column",
		Action:  "Check dates and numbers in this row",
		Code:    "DB006",
	}},

	// =========================================================================
	// Database connection errors
	// =========================================================================
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB007",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB008",
	}},
	{"transient storage failure", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB008",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB009",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB010",
	}},

	// =========================================================================
	// Request lifecycle
	// =========================================================================
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP003",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or split it into several imports",
		Code:    "IMP004",
	}},

	// =========================================================================
	// File errors
	// =========================================================================
	{"file too large", UserMessage{
		Message: "File exceeds maximum size limit (10MB)",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{"invalid csv", UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure the file is comma-separated and saved as UTF-8",
		Code:    "FILE002",
	}},
	{"unsupported file type", UserMessage{
		Message: "Invalid file type",
		Action:  "Only CSV, XLS, and XLSX files are allowed",
		Code:    "FILE003",
	}},
	{"unreadable file", UserMessage{
		Message: "The spreadsheet could not be opened",
		Action:  "Re-save the workbook as .xlsx and upload it again",
		Code:    "FILE004",
	}},
	{"no file provided", UserMessage{
		Message: "No file was uploaded",
		Action:  "Please select a CSV or Excel file",
		Code:    "FILE005",
	}},

	// =========================================================================
	// Table errors
	// =========================================================================
	{"unknown table", UserMessage{
		Message: "Unknown table type",
		Action:  "Choose one of the supported tables",
		Code:    "TBL001",
	}},

	// =========================================================================
	// Authentication
	// =========================================================================
	{"authentication required", UserMessage{
		Message: "Authentication required",
		Action:  "Sign in and try again",
		Code:    "AUTH001",
	}},
	{"invalid token", UserMessage{
		Message: "Invalid token",
		Action:  "Sign in again to refresh your session",
		Code:    "AUTH002",
	}},
	{"admin access required", UserMessage{
		Message: "Admin access required",
		Action:  "Ask an administrator to run this import",
		Code:    "AUTH003",
	}},

	// =========================================================================
	// Rate limiting
	// =========================================================================
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var duplicateMessage = UserMessage{
	Message: "A record with this value already exists",
	Action:  "Remove the duplicate row or edit the existing record",
	Code:    "DB001",
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for nil and ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if errors.Is(err, ErrDuplicate) {
		return duplicateMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its operator-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string { return e.User.Message }

func (e *UserError) Unwrap() error { return e.Technical }

// NewUserError maps err with MapError. Returns nil for a nil err.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
