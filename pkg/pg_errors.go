package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation = "23505"
	pgCodeCheckViolation  = "23514"
)

// PgErrorCode returns the SQLSTATE code of a postgres error, or "" for other errors.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeUniqueViolation
}

func IsCheckViolationError(err error) bool {
	return PgErrorCode(err) == pgCodeCheckViolation
}
