package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/repository"
)

// RecordService handles expense or income business logic. One instance
// serves one kind; both kinds share the same ownership checks.
type RecordService struct {
	kind    model.RecordKind
	store   RecordStore
	guard   *Guard
	cache   StatsCache
	metrics metrics.Recorder
	now     func() time.Time
}

// NewRecordService creates a RecordService for kind. cache may be nil.
func NewRecordService(kind model.RecordKind, store RecordStore, guard *Guard, cache StatsCache, recorder metrics.Recorder) *RecordService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecordService{
		kind:    kind,
		store:   store,
		guard:   guard,
		cache:   cache,
		metrics: recorder,
		now:     time.Now,
	}
}

// Kind returns the ledger this service manages.
func (s *RecordService) Kind() model.RecordKind {
	return s.kind
}

// RecordInput defines the client-editable fields of a record.
// Date is formatted as YYYY-MM-DD.
type RecordInput struct {
	Title       string
	Description string
	Category    string
	Date        string
	Amount      int64
}

// Create stores a new record owned by caller.
func (s *RecordService) Create(ctx context.Context, caller *model.Caller, input RecordInput) (*model.Record, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	fields, err := validateRecord(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := &model.Record{
		ID:          ulid.Make().String(),
		Kind:        s.kind,
		OwnerID:     caller.ID,
		Title:       fields.title,
		Description: fields.description,
		Category:    fields.category,
		Date:        fields.date,
		Amount:      fields.amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}

	s.metrics.IncRecordCreated(string(s.kind))
	s.invalidateStats(ctx, caller.ID)

	return rec, nil
}

// List returns the caller's records, newest first.
func (s *RecordService) List(ctx context.Context, caller *model.Caller) ([]*model.Record, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	records, err := s.store.ListRecordsByOwner(ctx, s.kind, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", s.kind, err)
	}
	return records, nil
}

// Get returns a record. A missing id is ErrNotFound; a record owned by
// someone else is ErrForbidden.
func (s *RecordService) Get(ctx context.Context, caller *model.Caller, id string) (*model.Record, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	rec, err := s.store.GetRecordByID(ctx, s.kind, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.kind, err)
	}

	if err := s.guard.AuthorizeOwner(caller, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Update overwrites the domain fields of a caller-owned record.
func (s *RecordService) Update(ctx context.Context, caller *model.Caller, id string, input RecordInput) (*model.Record, error) {
	rec, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields, err := validateRecord(input)
	if err != nil {
		return nil, err
	}

	rec.Title = fields.title
	rec.Description = fields.description
	rec.Category = fields.category
	rec.Date = fields.date
	rec.Amount = fields.amount
	rec.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateRecord(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update %s: %w", s.kind, err)
	}

	s.metrics.IncRecordUpdated(string(s.kind))
	s.invalidateStats(ctx, rec.OwnerID)

	return rec, nil
}

// Delete removes a caller-owned record.
func (s *RecordService) Delete(ctx context.Context, caller *model.Caller, id string) error {
	rec, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRecord(ctx, s.kind, rec.OwnerID, rec.ID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", s.kind, err)
	}

	s.metrics.IncRecordDeleted(string(s.kind))
	s.invalidateStats(ctx, rec.OwnerID)

	return nil
}

func (s *RecordService) invalidateStats(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	// Stale stats expire with the cache TTL if this fails.
	_ = s.cache.InvalidateStats(ctx, ownerID)
}
