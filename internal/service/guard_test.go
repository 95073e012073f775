package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

func TestGuard_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.signup(t, "alice")

	token, _, err := env.codec.Issue("alice", fixedNow)
	require.NoError(t, err)

	first, err := env.guard.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, alice, first)

	second, err := env.guard.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGuard_Authenticate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "alice")
	env.signup(t, "carol")
	require.NoError(t, env.auth.SetEnabled(ctx, "carol", false))

	valid, _, err := env.codec.Issue("alice", fixedNow)
	require.NoError(t, err)
	expired, _, err := env.codec.Issue("alice", fixedNow.Add(-env.codec.TTL()))
	require.NoError(t, err)
	unknown, _, err := env.codec.Issue("mallory", fixedNow)
	require.NoError(t, err)
	disabled, _, err := env.codec.Issue("carol", fixedNow)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered", tamperSignature(valid)},
		{"expired", expired},
		{"unknown subject", unknown},
		{"disabled subject", disabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := env.guard.Authenticate(ctx, tt.token)
			require.Nil(t, caller)
			require.ErrorIs(t, err, ErrUnauthenticated)
		})
	}

	require.Equal(t, uint64(len(tests)), env.recorder.Snapshot().AuthRejected)
}

func TestGuard_Authenticate_DisableRevokesOutstandingTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "alice")

	res, err := env.auth.Login(ctx, "alice", "password-alice")
	require.NoError(t, err)

	_, err = env.guard.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, env.auth.SetEnabled(ctx, "alice", false))
	_, err = env.guard.Authenticate(ctx, res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGuard_Authenticate_StorageErrorIsInternal(t *testing.T) {
	store := &failingStore{MemoryStore: repository.NewMemoryStore(), lookupErr: errStorage}
	codec := newTestCodec(t)
	guard := NewGuard(store, codec, nil)
	guard.now = fixedClock

	token, _, err := codec.Issue("alice", fixedNow)
	require.NoError(t, err)

	_, err = guard.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, errStorage)
	require.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestGuard_AuthorizeOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := &model.Caller{ID: "alice-id", Username: "alice"}
	bob := &model.Caller{ID: "bob-id", Username: "bob"}
	rec := &model.Record{ID: "r1", OwnerID: "alice-id"}

	require.NoError(t, env.guard.AuthorizeOwner(alice, rec))
	require.ErrorIs(t, env.guard.AuthorizeOwner(bob, rec), ErrForbidden)
	require.ErrorIs(t, env.guard.AuthorizeOwner(nil, rec), ErrUnauthenticated)

	// Usernames never grant access; only the identity ID counts.
	impostor := &model.Caller{ID: "bob-id", Username: "alice"}
	require.ErrorIs(t, env.guard.AuthorizeOwner(impostor, rec), ErrForbidden)

	require.Equal(t, uint64(2), env.recorder.Snapshot().AccessDenied)
}

// tamperSignature changes the first character of the signature segment.
func tamperSignature(token string) string {
	i := strings.LastIndex(token, ".") + 1
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	return token[:i] + string(replacement) + token[i+1:]
}
