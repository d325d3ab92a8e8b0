package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/quillpad/quillpad/internal/handler/dto"
	"github.com/quillpad/quillpad/internal/metrics"
	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

// ArticleStore is the subset of the data store used by ArticleHandler.
type ArticleStore interface {
	ListArticles(ctx context.Context) ([]model.Article, error)
	ListArticlesByAuthor(ctx context.Context, authorID int64) ([]model.Article, error)
	CreateArticle(ctx context.Context, newArticle model.NewArticle) (*model.Article, error)
}

// ArticleHandler handles HTTP requests for article operations.
type ArticleHandler struct {
	store   ArticleStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(store ArticleStore, recorder metrics.Recorder, logger *slog.Logger) *ArticleHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ArticleHandler{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// List handles GET /api/articles.
// With ?author_id=N only that author's articles are returned; an author
// with no articles, or no such author, yields an empty list.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		articles []model.Article
		err      error
	)

	start := time.Now()
	if raw := r.URL.Query().Get("author_id"); raw != "" {
		authorID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_AUTHOR_ID", "author_id must be an integer")
			return
		}
		articles, err = h.store.ListArticlesByAuthor(r.Context(), authorID)
	} else {
		articles, err = h.store.ListArticles(r.Context())
	}
	h.metrics.ObserveStoreDuration(time.Since(start))

	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

// Create handles POST /api/article.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	newArticle := req.ToNewArticle()
	if err := newArticle.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_AUTHOR", "Author must be a positive user id")
		return
	}

	start := time.Now()
	article, err := h.store.CreateArticle(r.Context(), newArticle)
	h.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			h.metrics.IncArticleAuthorMissing()
		}
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncArticleCreated()
	h.logger.Info("article_created",
		"article_id", article.ID,
		"author_id", article.Author,
	)

	writeJSON(w, http.StatusCreated, article)
}

// handleStoreError maps store errors to HTTP responses.
func (h *ArticleHandler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrAuthorNotFound):
		writeError(w, StatusForKind(repository.KindOf(err)), "AUTHOR_NOT_FOUND", "Author not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
