package errors

// Storage error mapping for the two SQL backends. Repositories call FromStore
// and IsConstraint and never look at driver types themselves

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// SQLSTATE codes we classify
const (
	pgUnique        = "23505"
	pgForeignKey    = "23503"
	pgNotNull       = "23502"
	pgCheck         = "23514"
	pgTruncation    = "22001"
	pgBadText       = "22P02"
	pgSerialization = "40001"
	pgDeadlock      = "40P01"
	pgLockBusy      = "55P03"
	pgReadOnly      = "25006"
	pgStarting      = "57P03"
)

func asPg(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func asSQLite(err error) (sqlite3.Error, bool) {
	var se sqlite3.Error
	if stderrs.As(Root(err), &se) {
		return se, true
	}
	return sqlite3.Error{}, false
}

// StoreCode maps a driver error from postgres or sqlite to an ErrorCode.
// ok is false when err came from neither driver
func StoreCode(err error) (ErrorCode, bool) {
	if se, ok := asSQLite(err); ok {
		return sqliteCode(se), true
	}
	if pgErr, ok := asPg(err); ok {
		return pgCode(pgErr.Code), true
	}
	return ErrorCodeUnknown, false
}

func pgCode(state string) ErrorCode {
	switch state {
	case pgUnique:
		return ErrorCodeDuplicateKey
	case pgForeignKey, pgTruncation, pgBadText:
		return ErrorCodeInvalidArgument
	case pgNotNull, pgCheck:
		return ErrorCodeValidation
	case pgReadOnly, pgStarting:
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

func sqliteCode(se sqlite3.Error) ErrorCode {
	switch se.Code {
	case sqlite3.ErrConstraint:
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrorCodeDuplicateKey
		case sqlite3.ErrConstraintForeignKey:
			return ErrorCodeInvalidArgument
		}
		return ErrorCodeValidation
	case sqlite3.ErrTooBig, sqlite3.ErrMismatch:
		return ErrorCodeInvalidArgument
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// IsConstraint reports whether err is a constraint violation on either backend
func IsConstraint(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := asSQLite(err); ok {
		return se.Code == sqlite3.ErrConstraint
	}
	if pgErr, ok := asPg(err); ok {
		switch pgErr.Code {
		case pgUnique, pgForeignKey, pgNotNull, pgCheck, pgTruncation:
			return true
		}
	}
	return false
}

// IsDuplicateKey reports whether err is a unique or primary key violation
func IsDuplicateKey(err error) bool {
	code, ok := StoreCode(err)
	return ok && code == ErrorCodeDuplicateKey
}

// FromStore wraps a storage error with its mapped ErrorCode. Errors that did
// not come from a driver are wrapped as ErrorCodeDB
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := StoreCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"database is locked",
}

func isRetryableStore(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if se, ok := asSQLite(err); ok {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	if pgErr, ok := asPg(err); ok {
		switch pgErr.Code {
		case pgSerialization, pgDeadlock, pgLockBusy:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range retryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
