package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

// ListArticles returns every article ordered by identity.
func (s *Store) ListArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, text, author FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return collectArticles(rows)
}

// ListArticlesByAuthor returns the articles written by authorID, possibly none.
func (s *Store) ListArticlesByAuthor(ctx context.Context, authorID int64) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, text, author FROM articles WHERE author = ? ORDER BY id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles by author: %w", err)
	}

	return collectArticles(rows)
}

// CreateArticle inserts an article after confirming its author exists,
// both inside one transaction.
func (s *Store) CreateArticle(ctx context.Context, newArticle model.NewArticle) (*model.Article, error) {
	var article model.Article

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var authorID int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = ?`, newArticle.Author).Scan(&authorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrAuthorNotFound
			}
			return fmt.Errorf("failed to check author: %w", err)
		}

		query := `
			INSERT INTO articles (title, text, author)
			VALUES (?, ?, ?)
			RETURNING id, title, text, author
		`

		return tx.QueryRowContext(ctx, query,
			newArticle.Title,
			newArticle.Text,
			newArticle.Author,
		).Scan(&article.ID, &article.Title, &article.Text, &article.Author)
	})

	if err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) || isForeignKeyViolation(err) {
			return nil, repository.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()

	articles := make([]model.Article, 0)
	for rows.Next() {
		var article model.Article
		if err := rows.Scan(&article.ID, &article.Title, &article.Text, &article.Author); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}
