package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors shared by all repositories. Services wrap these with
// context; handlers map them to HTTP statuses with errors.Is.
var (
	// ErrNotFound indicates the target row or association does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness constraint would be or was violated.
	ErrConflict = errors.New("already exists")
	// ErrInvalidReference indicates a supplied foreign key does not resolve.
	ErrInvalidReference = errors.New("invalid reference")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translatePQError maps postgres constraint violations onto the sentinel
// errors. The unique constraints in the schema are the backstop for the
// check-then-act validation done in the service layer: a racing duplicate
// insert surfaces here as ErrConflict, same as a preemptively detected one.
func translatePQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrConflict
		case pqForeignKeyViolation:
			return ErrInvalidReference
		}
	}
	return err
}
