package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// dummyHash is verified against when the username is unknown so that
// unknown users and wrong passwords take the same time.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("fintrack-timing-equalizer")
	return hash
})

// AuthService handles signup and login.
type AuthService struct {
	users   CredentialStore
	tokens  *auth.TokenCodec
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users CredentialStore, tokens *auth.TokenCodec, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		metrics: recorder,
		now:     time.Now,
	}
}

// SignupInput defines input for registering an identity.
type SignupInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// LoginResult is returned on successful login. It never carries the hash.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Email     string
	FullName  string
}

// Signup registers a new enabled identity. No token is issued.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.Identity, error) {
	if err := validateSignup(input); err != nil {
		s.metrics.IncSignup(metrics.SignupInvalid)
		return nil, err
	}

	taken, err := s.users.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		s.metrics.IncSignup(metrics.SignupConflict)
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		s.metrics.IncSignup(metrics.SignupConflict)
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.Identity{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		DisplayName:  input.FullName,
		Enabled:      true,
		CreatedAt:    s.now().UTC(),
	}

	// The checks above are advisory; the unique constraints decide races.
	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			s.metrics.IncSignup(metrics.SignupConflict)
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			s.metrics.IncSignup(metrics.SignupConflict)
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncSignup(metrics.SignupSuccess)
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown user, wrong
// password and disabled account all return ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLoginDuration(time.Since(start))
	}()

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.VerifyPassword(password, dummyHash())
			s.metrics.IncLogin(false)
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) || !user.Enabled {
		s.metrics.IncLogin(false)
		return nil, ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLogin(true)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.DisplayName,
	}, nil
}

// SetEnabled enables or disables an identity. Disabling takes effect on the
// next authenticated request, since tokens are resolved on every call.
func (s *AuthService) SetEnabled(ctx context.Context, username string, enabled bool) error {
	if err := s.users.SetUserEnabled(ctx, username, enabled); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
