// Package model defines domain entities for the application.
package model

import (
	"errors"
	"strings"
)

// Validation errors for creation payloads.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrInvalidAuthor    = errors.New("author must be a positive user id")
)

// User is a persisted user. The profile picture is served separately
// and never embedded in JSON.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture []byte `json:"-"`
}

// NewUser is the creation variant of User. The identity is assigned by the store.
type NewUser struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture []byte `json:"profile_picture,omitempty"`
}

// Normalize trims surrounding whitespace from the text fields.
func (u *NewUser) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if len(u.ProfilePicture) == 0 {
		u.ProfilePicture = nil
	}
}

// Validate checks the fields a store insert requires.
func (u NewUser) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrUsernameRequired
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	return nil
}

// HasProfilePicture reports whether the user uploaded a picture.
func (u *User) HasProfilePicture() bool {
	return len(u.ProfilePicture) > 0
}
