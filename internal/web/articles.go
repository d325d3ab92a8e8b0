package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

type articleRow struct {
	ID         int64
	Title      string
	Text       string
	Author     int64
	AuthorName string
}

type articlesPage struct {
	Title string
	// Filtered is set when the request named an author_id.
	Filtered bool
	// NoSuchAuthor marks a filter naming an unknown or unparsable author.
	NoSuchAuthor bool
	AuthorName   string
	Articles     []articleRow
}

// Articles handles GET /articles and GET /articles?author_id=N.
func (f *Frontend) Articles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := articlesPage{Title: "Articles"}

	var (
		articles []model.Article
		err      error
	)

	if raw := r.URL.Query().Get("author_id"); raw != "" {
		page.Filtered = true

		authorID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			page.NoSuchAuthor = true
			f.render(w, http.StatusOK, "articles", page)
			return
		}

		author, gerr := f.store.GetUser(ctx, authorID)
		if errors.Is(gerr, repository.ErrUserNotFound) {
			page.NoSuchAuthor = true
			f.render(w, http.StatusOK, "articles", page)
			return
		}
		if gerr != nil {
			f.renderError(w, gerr)
			return
		}

		page.AuthorName = author.Username
		page.Title = "Articles by " + author.Username

		start := time.Now()
		articles, err = f.store.ListArticlesByAuthor(ctx, authorID)
		f.metrics.ObserveStoreDuration(time.Since(start))
	} else {
		start := time.Now()
		articles, err = f.store.ListArticles(ctx)
		f.metrics.ObserveStoreDuration(time.Since(start))
	}
	if err != nil {
		f.renderError(w, err)
		return
	}

	page.Articles, err = f.withAuthorNames(ctx, articles)
	if err != nil {
		f.renderError(w, err)
		return
	}

	f.render(w, http.StatusOK, "articles", page)
}

// withAuthorNames resolves every distinct author in one store call.
// An author with no matching user gets the empty name.
func (f *Frontend) withAuthorNames(ctx context.Context, articles []model.Article) ([]articleRow, error) {
	ids := make([]int64, 0, len(articles))
	seen := make(map[int64]bool, len(articles))
	for _, a := range articles {
		if !seen[a.Author] {
			seen[a.Author] = true
			ids = append(ids, a.Author)
		}
	}

	names, err := f.store.UsernamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]articleRow, len(articles))
	for i, a := range articles {
		rows[i] = articleRow{
			ID:         a.ID,
			Title:      a.Title,
			Text:       a.Text,
			Author:     a.Author,
			AuthorName: names[a.Author],
		}
	}
	return rows, nil
}
