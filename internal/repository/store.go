package repository

import (
	"context"

	"github.com/quillpad/quillpad/internal/model"
)

// Store is the data store contract shared by the PostgreSQL and SQLite
// adapters. Failures are reported with the errors in this package so that
// KindOf classifies them the same way for both backends.
type Store interface {
	Ping(ctx context.Context) error
	Close()

	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, newUser model.NewUser) (*model.User, error)
	GetProfilePicture(ctx context.Context, id int64) ([]byte, error)
	UsernamesByID(ctx context.Context, ids []int64) (map[int64]string, error)

	ListArticles(ctx context.Context) ([]model.Article, error)
	ListArticlesByAuthor(ctx context.Context, authorID int64) ([]model.Article, error)
	CreateArticle(ctx context.Context, newArticle model.NewArticle) (*model.Article, error)
}

var _ Store = (*Repository)(nil)
