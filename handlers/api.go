package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"kalkia/services"
)

// apiError writes a JSON error body with the given status.
func apiError(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, map[string]string{"error": message})
}

// statusForError maps engine failures onto HTTP status codes.
func statusForError(err error) int {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var cycleErr *services.CyclicReferenceError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &cycleErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
