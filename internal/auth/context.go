package auth

import (
	"context"

	"github.com/fintrack/fintrack/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const callerContextKey contextKey = "caller"

// ContextWithCaller attaches the authenticated caller to the context.
// Only the HTTP boundary does this; services receive the caller as an
// explicit argument.
func ContextWithCaller(ctx context.Context, caller *model.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext retrieves the caller attached by the auth middleware.
// Returns nil if not present.
func CallerFromContext(ctx context.Context) *model.Caller {
	caller, ok := ctx.Value(callerContextKey).(*model.Caller)
	if !ok {
		return nil
	}
	return caller
}
