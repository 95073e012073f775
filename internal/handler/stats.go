package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/service"
)

// StatsHandler serves the dashboard endpoints.
type StatsHandler struct {
	svc    *service.StatsService
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		svc:    svc,
		logger: logger,
	}
}

// Summary handles GET /api/stats.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Summary(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToStatsResponse(stats))
}

// Chart handles GET /api/stats/chart.
func (h *StatsHandler) Chart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.svc.Chart(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToChartResponse(chart))
}

func (h *StatsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrUnauthenticated) {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, msgUnauthenticated)
		return
	}
	h.logger.Error("internal_error",
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	writeError(w, http.StatusInternalServerError, codeInternal, msgInternal)
}
