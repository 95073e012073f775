// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/service"
)

// Version is reported by the banner endpoint.
const Version = "1.0.0"

// Handler serves the banner and the router fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports the service name and version.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "fintrack API",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; an encode error can only mean the
	// client went away.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON decodes the request body into dst. Unknown fields are
// ignored; trailing garbage after the object is not.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}

// validationMessage returns the field-level message of a validation error.
func validationMessage(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return "Invalid input"
}

const (
	codeInternal        = "INTERNAL_ERROR"
	msgInternal         = "An internal error occurred"
	codeInvalidJSON     = "INVALID_JSON"
	msgInvalidJSON      = "Invalid request body"
	codeValidation      = "VALIDATION_ERROR"
	codeUnauthenticated = "UNAUTHENTICATED"
	msgUnauthenticated  = "Authentication required"
)
