package handler

import (
	"net/http"

	"github.com/quillpad/quillpad/internal/repository"
)

// StatusForKind maps a store error kind to its HTTP status.
func StatusForKind(kind repository.Kind) int {
	switch kind {
	case repository.KindAlreadyExists:
		return http.StatusConflict
	case repository.KindDoesNotExist:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
