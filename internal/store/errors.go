package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dbsmedya/objectgraph/internal/types"
)

const (
	mysqlNoSuchTable = 1146
	pgUndefinedTable = "42P01"
)

// classify maps a driver error onto the lookup error taxonomy: missing
// tables become types.ErrUnknownType, connection failures become
// types.ErrBackendUnavailable. Context errors pass through unchanged.
func classify(err error, format string, args ...interface{}) error {
	op := fmt.Sprintf(format, args...)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if isUndefinedTable(err) {
		return fmt.Errorf("%w: %s: %v", types.ErrUnknownType, op, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %s: %v", types.ErrBackendUnavailable, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isUndefinedTable(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	return false
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. 57P01-57P03: server shutting down.
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:3] == "57P")
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
