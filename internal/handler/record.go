package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/service"
)

// RecordHandler serves the CRUD routes of one ledger (expense or income).
type RecordHandler struct {
	svc    *service.RecordService
	logger *slog.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc *service.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		svc:    svc,
		logger: logger.With("kind", string(svc.Kind())),
	}
}

// Create handles POST /api/{kind}.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())

	var req dto.RecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidJSON)
		return
	}

	rec, err := h.svc.Create(r.Context(), caller, req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, caller, err)
		return
	}

	h.logger.Info("record_created",
		"record_id", rec.ID,
		"caller_id", caller.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToRecordResponse(rec))
}

// List handles GET /api/{kind}/all.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())

	records, err := h.svc.List(r.Context(), caller)
	if err != nil {
		h.handleServiceError(w, r, caller, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecordList(records))
}

// Get handles GET /api/{kind}/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	rec, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		h.handleServiceError(w, r, caller, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecordResponse(rec))
}

// Update handles PUT /api/{kind}/{id}.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.RecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidJSON)
		return
	}

	rec, err := h.svc.Update(r.Context(), caller, id, req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, caller, err)
		return
	}

	h.logger.Info("record_updated",
		"record_id", rec.ID,
		"caller_id", caller.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToRecordResponse(rec))
}

// Delete handles DELETE /api/{kind}/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), caller, id); err != nil {
		h.handleServiceError(w, r, caller, err)
		return
	}

	h.logger.Info("record_deleted",
		"record_id", id,
		"caller_id", caller.ID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *RecordHandler) handleServiceError(w http.ResponseWriter, r *http.Request, caller *model.Caller, err error) {
	label := h.svc.Kind().Label()

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", label+" not found")
	case errors.Is(err, service.ErrForbidden):
		h.logger.Warn("access_denied",
			"record_id", chi.URLParam(r, "id"),
			"caller_id", caller.ID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this "+strings.ToLower(label))
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeValidation, validationMessage(err))
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, msgUnauthenticated)
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}
