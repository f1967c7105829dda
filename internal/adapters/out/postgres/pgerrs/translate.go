// Package pgerrs maps postgres and gorm failures onto the error taxonomy
// shared by every repository.
package pgerrs

import (
	"errors"

	"bakery/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UniqueViolation is the SQLSTATE raised when a unique index rejects a row.
const UniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique index. Both the
// raw pgconn error and gorm's translated ErrDuplicatedKey are recognised.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == UniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Translate turns a unique violation into an AlreadyProcessedError for the
// given table and key. Other errors are returned unchanged.
func Translate(err error, table, key string) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return errs.NewAlreadyProcessedErrorWithCause(table, key, err)
	}
	return err
}

// NotFound turns gorm.ErrRecordNotFound into an ObjectNotFoundError.
func NotFound(err error, paramName string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundErrorWithCause(paramName, id, err)
	}
	return err
}
