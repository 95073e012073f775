package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

// MemoryStore is a process-local store with the same semantics and
// sentinels as Repository. It backs STORAGE_DRIVER=memory and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*model.Identity // keyed by ID
	records map[model.RecordKind]map[string]*model.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*model.Identity),
		records: map[model.RecordKind]map[string]*model.Record{
			model.KindExpense: make(map[string]*model.Record),
			model.KindIncome:  make(map[string]*model.Record),
		},
	}
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() {}

func (m *MemoryStore) CreateUser(ctx context.Context, user *model.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrUsernameExists
		}
		if u.Email == user.Email {
			return ErrEmailExists
		}
	}

	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*model.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (m *MemoryStore) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) SetUserEnabled(ctx context.Context, username string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			u.Enabled = enabled
			return nil
		}
	}
	return ErrUserNotFound
}

func (m *MemoryStore) table(kind model.RecordKind) (map[string]*model.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return m.records[kind], nil
}

func (m *MemoryStore) CreateRecord(ctx context.Context, rec *model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	table, err := m.table(rec.Kind)
	if err != nil {
		return err
	}

	cp := *rec
	table[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) GetRecordByID(ctx context.Context, kind model.RecordKind, id string) (*model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, err := m.table(kind)
	if err != nil {
		return nil, err
	}

	rec, ok := table[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) ListRecordsByOwner(ctx context.Context, kind model.RecordKind, ownerID string) ([]*model.Record, error) {
	return m.list(kind, func(r *model.Record) bool { return r.OwnerID == ownerID })
}

func (m *MemoryStore) ListRecordsByOwnerBetween(ctx context.Context, kind model.RecordKind, ownerID string, from, to time.Time) ([]*model.Record, error) {
	from, to = model.TruncateDate(from), model.TruncateDate(to)
	return m.list(kind, func(r *model.Record) bool {
		return r.OwnerID == ownerID && !r.Date.Before(from) && !r.Date.After(to)
	})
}

func (m *MemoryStore) list(kind model.RecordKind, keep func(*model.Record) bool) ([]*model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, err := m.table(kind)
	if err != nil {
		return nil, err
	}

	records := []*model.Record{}
	for _, r := range table {
		if keep(r) {
			cp := *r
			records = append(records, &cp)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].NewerThan(records[j])
	})
	return records, nil
}

func (m *MemoryStore) UpdateRecord(ctx context.Context, rec *model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	table, err := m.table(rec.Kind)
	if err != nil {
		return err
	}

	existing, ok := table[rec.ID]
	if !ok || existing.OwnerID != rec.OwnerID {
		return ErrRecordNotFound
	}

	existing.Title = rec.Title
	existing.Description = rec.Description
	existing.Category = rec.Category
	existing.Date = rec.Date
	existing.Amount = rec.Amount
	existing.UpdatedAt = rec.UpdatedAt
	return nil
}

func (m *MemoryStore) DeleteRecord(ctx context.Context, kind model.RecordKind, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	table, err := m.table(kind)
	if err != nil {
		return err
	}

	existing, ok := table[id]
	if !ok || existing.OwnerID != ownerID {
		return ErrRecordNotFound
	}
	delete(table, id)
	return nil
}
