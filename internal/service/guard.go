package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// IdentityLookup resolves a token subject to an identity.
type IdentityLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*model.Identity, error)
}

// Guard authenticates bearer tokens and enforces resource ownership.
type Guard struct {
	users   IdentityLookup
	tokens  *auth.TokenCodec
	metrics metrics.Recorder
	now     func() time.Time
}

// NewGuard creates a new Guard.
func NewGuard(users IdentityLookup, tokens *auth.TokenCodec, recorder metrics.Recorder) *Guard {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Guard{
		users:   users,
		tokens:  tokens,
		metrics: recorder,
		now:     time.Now,
	}
}

// Authenticate resolves a bearer token to the calling identity.
func (g *Guard) Authenticate(ctx context.Context, token string) (*model.Caller, error) {
	subject, err := g.tokens.Validate(token, g.now())
	if err != nil {
		g.metrics.IncAuthRejected()
		return nil, ErrUnauthenticated
	}

	user, err := g.users.GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			g.metrics.IncAuthRejected()
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	if !user.Enabled {
		g.metrics.IncAuthRejected()
		return nil, ErrUnauthenticated
	}

	return user.Caller(), nil
}

// AuthorizeOwner allows access only when caller owns the resource.
func (g *Guard) AuthorizeOwner(caller *model.Caller, resource model.Ownable) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if resource.Owner() != caller.ID {
		g.metrics.IncAccessDenied()
		return ErrForbidden
	}
	return nil
}
