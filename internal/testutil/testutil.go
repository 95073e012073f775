package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fintrack/fintrack/internal/migrate"
	"github.com/fintrack/fintrack/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

var (
	postgresOnce sync.Once
	postgresURL  string
	postgresErr  error
)

// DatabaseURL returns DATABASE_URL when set. Otherwise it starts a disposable
// PostgreSQL container, shared by every test in the process, and returns its
// DSN. The container is reaped by testcontainers when the process exits.
func DatabaseURL(t testing.TB) string {
	t.Helper()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	postgresOnce.Do(func() {
		postgresURL, postgresErr = startPostgres(context.Background())
	})
	if postgresErr != nil {
		t.Skipf("postgres container unavailable: %v", postgresErr)
	}
	return postgresURL
}

func startPostgres(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "fintrack",
			"POSTGRES_PASSWORD": "fintrack",
			"POSTGRES_DB":       "fintrack",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return "", fmt.Errorf("container port: %w", err)
	}

	return fmt.Sprintf("postgres://fintrack:fintrack@%s:%s/fintrack?sslmode=disable", host, port.Port()), nil
}

var (
	redisOnce sync.Once
	redisURL  string
	redisErr  error
)

// RedisURL returns REDIS_URL when set, otherwise the URL of a shared
// disposable Redis container.
func RedisURL(t testing.TB) string {
	t.Helper()
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}

	redisOnce.Do(func() {
		redisURL, redisErr = startRedis(context.Background())
	})
	if redisErr != nil {
		t.Skipf("redis container unavailable: %v", redisErr)
	}
	return redisURL
}

func startRedis(ctx context.Context) (string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return "", fmt.Errorf("container port: %w", err)
	}

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port()), nil
}

// NewTestPool connects to the test database, applies migrations, serializes
// access with an advisory lock and truncates all tables.
func NewTestPool(t testing.TB) (context.Context, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dsn := DatabaseURL(t)

	if err := migrate.Up(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, pool
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema removes every row from the application tables.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE expenses, incomes, users CASCADE"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestIdentity creates an enabled identity with a placeholder hash.
func NewTestIdentity(t testing.TB, username string) *model.Identity {
	t.Helper()
	return &model.Identity{
		ID:           ulid.Make().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		DisplayName:  username,
		Enabled:      true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestRecord creates a record owned by ownerID dated today.
func NewTestRecord(t testing.TB, kind model.RecordKind, ownerID string) *model.Record {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Record{
		ID:          ulid.Make().String(),
		Kind:        kind,
		OwnerID:     ownerID,
		Title:       "Test " + kind.Label(),
		Description: "created by tests",
		Category:    "misc",
		Date:        model.TruncateDate(now),
		Amount:      100,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
