package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

// ListUsers returns every user ordered by identity. Profile pictures are not loaded.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetUser retrieves a user by identity.
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := s.db.QueryRowContext(ctx, `SELECT id, username, email FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// CreateUser inserts a new user and returns it with its assigned identity.
func (s *Store) CreateUser(ctx context.Context, newUser model.NewUser) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, profile_picture)
		VALUES (?, ?, ?)
		RETURNING id, username, email
	`

	var user model.User
	err := s.db.QueryRowContext(ctx, query,
		newUser.Username,
		newUser.Email,
		newUser.ProfilePicture,
	).Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ProfilePicture = newUser.ProfilePicture
	return &user, nil
}

// GetProfilePicture returns the stored picture bytes for a user.
func (s *Store) GetProfilePicture(ctx context.Context, id int64) ([]byte, error) {
	var picture []byte
	err := s.db.QueryRowContext(ctx, `SELECT profile_picture FROM users WHERE id = ?`, id).Scan(&picture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile picture: %w", err)
	}

	if len(picture) == 0 {
		return nil, repository.ErrNoProfilePicture
	}

	return picture, nil
}

// UsernamesByID resolves usernames for the given identities.
func (s *Store) UsernamesByID(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usernames: %w", err)
	}

	return names, nil
}
