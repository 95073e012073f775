package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/service"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidJSON)
		return
	}

	user, err := h.svc.Signup(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, msgInvalidJSON)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.logger.Warn("login_failed",
				"ip", r.RemoteAddr,
				"request_id", middleware.GetRequestID(r.Context()),
			)
		}
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("login_succeeded",
		"username", result.Username,
		"expires_at", result.ExpiresAt,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToLoginResponse(result))
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "USERNAME_TAKEN", "Username already exists")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", "Email already exists")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeValidation, validationMessage(err))
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}
