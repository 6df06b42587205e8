package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
	ErrPersistence            = errors.New("persistence failed")

	ErrInsufficientStock = &ValidationError{Field: "quantity", Message: "adjustment would make stock negative"}
)

// ValidationError names the offending input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
}

// dbError folds driver and ORM errors into the service taxonomy. Errors that
// already belong to it pass through untouched.
func dbError(err error, entity string) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrAuthenticationRequired, ErrNotFound, ErrValidation, ErrConflict, ErrPersistence} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, entity)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s already exists", ErrConflict, entity)
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
