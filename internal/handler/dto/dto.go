// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/quillpad/quillpad/internal/model"

// CreateUserRequest represents the request body for creating a user.
// ProfilePicture is base64 encoded in JSON.
type CreateUserRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture []byte `json:"profile_picture,omitempty"`
}

// CreateArticleRequest represents the request body for creating an article.
type CreateArticleRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Author int64  `json:"author"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToNewUser converts the request into a normalized creation value.
func (r CreateUserRequest) ToNewUser() model.NewUser {
	u := model.NewUser{
		Username:       r.Username,
		Email:          r.Email,
		ProfilePicture: r.ProfilePicture,
	}
	u.Normalize()
	return u
}

// ToNewArticle converts the request into a creation value.
func (r CreateArticleRequest) ToNewArticle() model.NewArticle {
	return model.NewArticle{
		Title:  r.Title,
		Text:   r.Text,
		Author: r.Author,
	}
}
