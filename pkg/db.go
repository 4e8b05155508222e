package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolationError reports a postgres unique_violation (23505), e.g. a
// document id that is already taken.
func IsUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
