// Package web serves the HTML front end: the user and article listings and
// the add-user form.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/quillpad/quillpad/internal/metrics"
	"github.com/quillpad/quillpad/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Store is the subset of the data store used by the front end.
type Store interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, newUser model.NewUser) (*model.User, error)
	UsernamesByID(ctx context.Context, ids []int64) (map[int64]string, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	ListArticlesByAuthor(ctx context.Context, authorID int64) ([]model.Article, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// Frontend renders the HTML pages.
type Frontend struct {
	store     Store
	metrics   metrics.Recorder
	logger    *slog.Logger
	pages     map[string]*template.Template
	maxUpload int64
}

// pageNames lists the templates rendered inside base.html.
var pageNames = []string{"users", "articles", "add_user"}

// New parses the embedded templates and returns a Frontend.
// maxUpload bounds the size of a submitted add-user form.
func New(store Store, recorder metrics.Recorder, logger *slog.Logger, maxUpload int64) (*Frontend, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Frontend{
		store:     store,
		metrics:   recorder,
		logger:    logger,
		pages:     pages,
		maxUpload: maxUpload,
	}, nil
}

// Static serves the embedded stylesheet and other assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded static filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Index redirects to the user listing.
func (f *Frontend) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/users", http.StatusFound)
}

// render executes the named page into a buffer so a template failure never
// leaves a half-written response.
func (f *Frontend) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := f.pages[page]
	if !ok {
		f.renderError(w, fmt.Errorf("unknown page %q", page))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		f.renderError(w, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (f *Frontend) renderError(w http.ResponseWriter, err error) {
	f.logger.Error("internal_error", "error", err)
	http.Error(w, "An internal error occurred", http.StatusInternalServerError)
}
