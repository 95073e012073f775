package service

import (
	"context"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

// CredentialStore persists identities. Implemented by repository.Repository
// and repository.MemoryStore.
type CredentialStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserByUsername(ctx context.Context, username string) (*model.Identity, error)
	CreateUser(ctx context.Context, user *model.Identity) error
	SetUserEnabled(ctx context.Context, username string, enabled bool) error
}

// RecordStore persists expense and income records.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec *model.Record) error
	GetRecordByID(ctx context.Context, kind model.RecordKind, id string) (*model.Record, error)
	ListRecordsByOwner(ctx context.Context, kind model.RecordKind, ownerID string) ([]*model.Record, error)
	ListRecordsByOwnerBetween(ctx context.Context, kind model.RecordKind, ownerID string, from, to time.Time) ([]*model.Record, error)
	UpdateRecord(ctx context.Context, rec *model.Record) error
	DeleteRecord(ctx context.Context, kind model.RecordKind, ownerID, id string) error
}

// StatsCache caches per-owner stats. Every InvalidateStats advances the
// owner's generation; GetStats reports the current one (with nil stats on a
// miss) and SetStats stores nothing once it has moved on.
type StatsCache interface {
	GetStats(ctx context.Context, ownerID string) (*model.Stats, uint64, error)
	SetStats(ctx context.Context, ownerID string, gen uint64, stats *model.Stats) (bool, error)
	InvalidateStats(ctx context.Context, ownerID string) error
}
