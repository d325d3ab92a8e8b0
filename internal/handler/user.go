package handler

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/quillpad/quillpad/internal/handler/dto"
	"github.com/quillpad/quillpad/internal/metrics"
	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

// UserStore is the subset of the data store used by UserHandler.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, newUser model.NewUser) (*model.User, error)
	GetProfilePicture(ctx context.Context, id int64) ([]byte, error)
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	store   UserStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore, recorder metrics.Recorder, logger *slog.Logger) *UserHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserHandler{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	users, err := h.store.ListUsers(r.Context())
	h.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Create handles POST /api/user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	newUser := req.ToNewUser()
	if err := newUser.Validate(); err != nil {
		h.writeValidationError(w, err)
		return
	}

	start := time.Now()
	user, err := h.store.CreateUser(r.Context(), newUser)
	h.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.metrics.IncUserConflict()
		}
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncUserCreated()
	h.logger.Info("user_created",
		"user_id", user.ID,
		"has_profile_picture", user.HasProfilePicture(),
	)

	writeJSON(w, http.StatusCreated, user)
}

// Get handles GET /api/user/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User ID must be a positive integer")
		return
	}

	start := time.Now()
	user, err := h.store.GetUser(r.Context(), id)
	h.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Avatar handles GET /api/user/{id}/avatar.
// The body is the stored picture; its ETag lets clients revalidate.
func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User ID must be a positive integer")
		return
	}

	start := time.Now()
	picture, err := h.store.GetProfilePicture(r.Context(), id)
	h.metrics.ObserveStoreDuration(time.Since(start))
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	etag := PictureETag(picture)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		h.metrics.IncAvatarNotModified()
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", PictureContentType(picture))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(picture); err != nil {
		h.logger.Warn("avatar_write_failed", "user_id", id, "error", err)
		return
	}
	h.metrics.IncAvatarServed()
}

// PictureETag returns a strong entity tag derived from the picture bytes.
func PictureETag(picture []byte) string {
	sum := blake2b.Sum256(picture)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// PictureContentType sniffs the image type, falling back to JPEG when the
// bytes are not recognized as an image.
func PictureContentType(picture []byte) string {
	ct := http.DetectContentType(picture)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// handleStoreError maps store errors to HTTP responses.
func (h *UserHandler) handleStoreError(w http.ResponseWriter, err error) {
	status := StatusForKind(repository.KindOf(err))

	switch {
	case errors.Is(err, repository.ErrEmailExists):
		writeError(w, status, "EMAIL_TAKEN", "Email is already registered")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, status, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, repository.ErrNoProfilePicture):
		writeError(w, status, "NO_PROFILE_PICTURE", "User has no profile picture")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func (h *UserHandler) writeValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUsernameRequired):
		writeError(w, http.StatusBadRequest, "USERNAME_REQUIRED", "Username is required")
	case errors.Is(err, model.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "EMAIL_REQUIRED", "Email is required")
	default:
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Email is invalid")
	}
}
