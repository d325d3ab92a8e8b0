package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/quillpad/quillpad/internal/model"
)

// ListUsers returns every user ordered by identity. Profile pictures are not loaded.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, username, email
		FROM users
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
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
func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, email
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// CreateUser inserts a new user and returns it with its assigned identity.
func (r *Repository) CreateUser(ctx context.Context, newUser model.NewUser) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, profile_picture)
		VALUES ($1, $2, $3)
		RETURNING id, username, email
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query,
		newUser.Username,
		newUser.Email,
		newUser.ProfilePicture,
	).Scan(&user.ID, &user.Username, &user.Email)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ProfilePicture = newUser.ProfilePicture
	return &user, nil
}

// GetProfilePicture returns the stored picture bytes for a user.
// ErrUserNotFound and ErrNoProfilePicture tell the two misses apart.
func (r *Repository) GetProfilePicture(ctx context.Context, id int64) ([]byte, error) {
	query := `
		SELECT profile_picture
		FROM users
		WHERE id = $1
	`

	var picture []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&picture)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile picture: %w", err)
	}

	if len(picture) == 0 {
		return nil, ErrNoProfilePicture
	}

	return picture, nil
}

// UsernamesByID resolves usernames for the given identities.
// Identities without a matching row are absent from the result.
func (r *Repository) UsernamesByID(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query := `
		SELECT id, username
		FROM users
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(ids))
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
