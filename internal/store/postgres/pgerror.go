package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgxPgErrorCode extracts the SQLSTATE code from a pgx error, if any.
func pgxPgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
