package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret, time.Hour, "fintrack-test")
	require.NoError(t, err)
	return codec
}

type testEnv struct {
	store    *repository.MemoryStore
	codec    *auth.TokenCodec
	recorder *metrics.InMemoryRecorder
	auth     *AuthService
	guard    *Guard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	codec := newTestCodec(t)
	recorder := metrics.NewInMemory()

	authSvc := NewAuthService(store, codec, recorder)
	authSvc.now = fixedClock
	guard := NewGuard(store, codec, recorder)
	guard.now = fixedClock

	return &testEnv{store: store, codec: codec, recorder: recorder, auth: authSvc, guard: guard}
}

// signup registers a user and returns its caller.
func (e *testEnv) signup(t *testing.T, username string) *model.Caller {
	t.Helper()
	user, err := e.auth.Signup(context.Background(), SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-" + username,
		FullName: username,
	})
	require.NoError(t, err)
	return user.Caller()
}

// fakeCache is an in-memory StatsCache that records calls.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]*model.Stats
	gens        map[string]uint64
	gets        int
	sets        int
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.Stats), gens: make(map[string]uint64)}
}

func (c *fakeCache) GetStats(ctx context.Context, ownerID string) (*model.Stats, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	return c.entries[ownerID], c.gens[ownerID], nil
}

func (c *fakeCache) SetStats(ctx context.Context, ownerID string, gen uint64, stats *model.Stats) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.gens[ownerID] != gen {
		return false, nil
	}
	c.entries[ownerID] = stats
	return true, nil
}

func (c *fakeCache) InvalidateStats(ctx context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ownerID)
	c.gens[ownerID]++
	delete(c.entries, ownerID)
	return nil
}

func (c *fakeCache) cached(ownerID string) *model.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[ownerID]
}

// failingStore wraps MemoryStore and fails selected operations.
type failingStore struct {
	*repository.MemoryStore
	existsErr error
	createErr error
	lookupErr error
	listErr   error
}

func (s *failingStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.MemoryStore.UsernameExists(ctx, username)
}

func (s *failingStore) CreateUser(ctx context.Context, user *model.Identity) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.MemoryStore.CreateUser(ctx, user)
}

func (s *failingStore) GetUserByUsername(ctx context.Context, username string) (*model.Identity, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.MemoryStore.GetUserByUsername(ctx, username)
}

func (s *failingStore) ListRecordsByOwner(ctx context.Context, kind model.RecordKind, ownerID string) ([]*model.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.MemoryStore.ListRecordsByOwner(ctx, kind, ownerID)
}

var errStorage = errors.New("storage unavailable")
