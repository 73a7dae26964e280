package postgres

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

// SQLSTATE codes outside class 08 that clear up on retry.
var transientCodes = map[string]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// IsTransient reports whether err is a storage fault that may succeed on
// retry: connection exceptions, server shutdowns, network errors and
// timeouts. Constraint violations and bad values are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || transientCodes[pgErr.Code]
	}

	if pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF)
}

// classify tags transient faults with core.ErrTransient and unique
// violations with core.ErrDuplicate.
func classify(err error) error {
	switch {
	case IsTransient(err) && !errors.Is(err, core.ErrTransient):
		return fmt.Errorf("%w: %w", core.ErrTransient, err)
	case IsUniqueViolation(err) && !errors.Is(err, core.ErrDuplicate):
		return fmt.Errorf("%w: %w", core.ErrDuplicate, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
