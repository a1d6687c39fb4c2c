package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
)

const (
	pgUniqueViolation  = "23505"
	pgStringTruncation = "22001"
)

// uniqueFields maps unique constraints to the field reported to clients.
var uniqueFields = map[string]string{
	"uq_users_email":    "email",
	"uq_users_username": "username",
	"uq_auth_email":     "email",
}

// translateError converts driver errors into repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field, ok := uniqueFields[pgErr.ConstraintName]
		if !ok {
			field = "record"
		}
		return &repository.DuplicateError{Field: field}
	}
	if errors.As(err, &pgErr) && pgErr.Code == pgStringTruncation {
		return fmt.Errorf("%w: %s", repository.ErrValueTooLong, pgErr.Message)
	}
	return err
}
