package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"email exists", ErrEmailExists, KindAlreadyExists},
		{"user not found", ErrUserNotFound, KindDoesNotExist},
		{"no profile picture", ErrNoProfilePicture, KindDoesNotExist},
		{"author not found", ErrAuthorNotFound, KindDoesNotExist},
		{"wrapped not found", fmt.Errorf("get user 7: %w", ErrUserNotFound), KindDoesNotExist},
		{"umbrella already exists", ErrAlreadyExists, KindAlreadyExists},
		{"connection failure", errors.New("connection refused"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestMissingUserAndMissingPictureAreDistinct(t *testing.T) {
	t.Parallel()

	if errors.Is(ErrUserNotFound, ErrNoProfilePicture) || errors.Is(ErrNoProfilePicture, ErrUserNotFound) {
		t.Fatal("missing user and missing picture must be distinguishable")
	}
	if KindOf(ErrUserNotFound) != KindOf(ErrNoProfilePicture) {
		t.Fatal("missing user and missing picture must share the DoesNotExist kind")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := map[Kind]string{
		KindInternal:      "internal",
		KindAlreadyExists: "already_exists",
		KindDoesNotExist:  "does_not_exist",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestPgViolationDetection(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "articles_author_fkey"}
	other := &pgconn.PgError{Code: "42P01"}

	if !isUniqueViolation(fmt.Errorf("insert: %w", unique)) {
		t.Error("wrapped 23505 should be a unique violation")
	}
	if isUniqueViolation(fk) {
		t.Error("23503 should not be a unique violation")
	}
	if !isForeignKeyViolation(fk) {
		t.Error("23503 should be a foreign key violation")
	}
	if isForeignKeyViolation(other) || isUniqueViolation(other) {
		t.Error("42P01 should be neither violation")
	}
	if isUniqueViolation(errors.New("duplicate key value violates unique constraint")) {
		t.Error("plain errors must not be classified by message text")
	}
}
