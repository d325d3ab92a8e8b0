package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Umbrella errors. Every typed store failure wraps exactly one of them.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrDoesNotExist  = errors.New("does not exist")
)

// Typed store failures.
var (
	ErrEmailExists      = fmt.Errorf("email %w", ErrAlreadyExists)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrDoesNotExist)
	ErrNoProfilePicture = fmt.Errorf("profile picture %w", ErrDoesNotExist)
	ErrAuthorNotFound   = fmt.Errorf("author %w", ErrDoesNotExist)
)

// Kind classifies a store error independently of any transport.
type Kind int

const (
	// KindInternal covers connection failures, malformed queries and any
	// constraint the store does not translate.
	KindInternal Kind = iota
	KindAlreadyExists
	KindDoesNotExist
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAlreadyExists:
		return "already_exists"
	case KindDoesNotExist:
		return "does_not_exist"
	default:
		return "internal"
	}
}

// KindOf returns the kind of err. A nil error has no meaningful kind and
// reports KindInternal; callers check err != nil first.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrDoesNotExist):
		return KindDoesNotExist
	default:
		return KindInternal
	}
}

// PostgreSQL SQLSTATE codes the adapter translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
