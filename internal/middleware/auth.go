package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/service"
)

// Authenticator resolves a bearer token to a caller.
// It is implemented by *service.Guard.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Caller, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Guard  Authenticator
}

const (
	unauthenticatedBody = `{"error":"Authentication required","code":"UNAUTHENTICATED"}`
	internalErrorBody   = `{"error":"An internal error occurred","code":"INTERNAL_ERROR"}`
)

// Authenticate returns a middleware that requires a valid bearer token.
// The resolved caller is attached to the request context; handlers read it
// once with auth.CallerFromContext.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeUnauthenticated(w)
				return
			}

			caller, err := cfg.Guard.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					logAuthFailure(cfg.Logger, r, "invalid_token")
					writeUnauthenticated(w)
					return
				}
				cfg.Logger.Error("internal_error",
					slog.String("op", "authenticate"),
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, internalErrorBody)
				return
			}

			annotateCaller(r.Context(), caller.ID)
			ctx := auth.ContextWithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeUnauthenticated writes the same 401 for every token failure.
func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="fintrack"`)
	writeJSONError(w, http.StatusUnauthorized, unauthenticatedBody)
}

func writeJSONError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
