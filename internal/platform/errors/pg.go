package errors

import (
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes with a class of their own
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrStringDataRightTruncation = "22001"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrNumericValueOutOfRange    = "22003"
	pgErrReadOnlySQLTransaction    = "25006"
	pgErrCannotConnectNow          = "57P03"
)

var pgCodes = map[string]ErrorCode{
	pgErrUniqueViolation:           ErrorCodeDuplicateKey,
	pgErrForeignKeyViolation:       ErrorCodeInvalidArgument,
	pgErrStringDataRightTruncation: ErrorCodeInvalidArgument,
	pgErrInvalidTextRepresentation: ErrorCodeInvalidArgument,
	pgErrNumericValueOutOfRange:    ErrorCodeInvalidArgument,
	pgErrNotNullViolation:          ErrorCodeValidation,
	pgErrCheckViolation:            ErrorCodeValidation,
	pgErrReadOnlySQLTransaction:    ErrorCodeUnavailable,
	pgErrCannotConnectNow:          ErrorCodeUnavailable,
}

// IsSQLState reports whether err wraps a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return stderrs.As(err, &pgErr) && pgErr.Code == code
}

// IsDuplicateKey reports whether err is a unique constraint violation
// the normalizer relies on it to spot an origin that already has its record
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// DBErrorCode maps a Postgres error to an ErrorCode, ok is false when err is not one
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	if c, ok := pgCodes[pgErr.Code]; ok {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres classifies a database error, nil stays nil
// errors that are not from Postgres are still filed under ErrorCodeDB
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromPostgres(err, fmt.Sprintf(format, a...))
}
