package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quillpad/quillpad/internal/model"
)

// ListArticles returns every article ordered by identity.
func (r *Repository) ListArticles(ctx context.Context) ([]model.Article, error) {
	query := `
		SELECT id, title, text, author
		FROM articles
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return collectArticles(rows)
}

// ListArticlesByAuthor returns the articles written by authorID.
// An author with no articles, or no such author, yields an empty slice.
func (r *Repository) ListArticlesByAuthor(ctx context.Context, authorID int64) ([]model.Article, error) {
	query := `
		SELECT id, title, text, author
		FROM articles
		WHERE author = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles by author: %w", err)
	}

	return collectArticles(rows)
}

// CreateArticle inserts an article after confirming its author exists.
// The check and the insert share one transaction; the author row is
// share-locked so it cannot disappear between them.
func (r *Repository) CreateArticle(ctx context.Context, newArticle model.NewArticle) (*model.Article, error) {
	var article model.Article

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var authorID int64
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR SHARE`, newArticle.Author).Scan(&authorID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAuthorNotFound
			}
			return fmt.Errorf("failed to check author: %w", err)
		}

		query := `
			INSERT INTO articles (title, text, author)
			VALUES ($1, $2, $3)
			RETURNING id, title, text, author
		`

		return tx.QueryRow(ctx, query,
			newArticle.Title,
			newArticle.Text,
			newArticle.Author,
		).Scan(&article.ID, &article.Title, &article.Text, &article.Author)
	})

	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) || isForeignKeyViolation(err) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	return &article, nil
}

// collectArticles drains rows into a non-nil slice.
func collectArticles(rows pgx.Rows) ([]model.Article, error) {
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
