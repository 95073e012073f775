package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fintrack/fintrack/internal/model"
)

// Common errors for record repository operations.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownKind    = errors.New("unknown record kind")
)

const recordColumns = `id, user_id, title, description, category, date, amount, created_at, updated_at`

// recordTable maps a kind to its table. Table names are never taken from input.
func recordTable(kind model.RecordKind) (string, error) {
	switch kind {
	case model.KindExpense:
		return "expenses", nil
	case model.KindIncome:
		return "incomes", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// CreateRecord inserts a new record into the table of its kind.
func (r *Repository) CreateRecord(ctx context.Context, rec *model.Record) error {
	table, err := recordTable(rec.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, table, recordColumns)

	_, err = r.pool.Exec(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Title,
		rec.Description,
		rec.Category,
		rec.Date,
		rec.Amount,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", rec.Kind, err)
	}

	return nil
}

// GetRecordByID retrieves a record by ID regardless of owner.
func (r *Repository) GetRecordByID(ctx context.Context, kind model.RecordKind, id string) (*model.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, recordColumns, table)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get %s by ID: %w", kind, err)
	}

	return rec, nil
}

// ListRecordsByOwner returns every record of the owner, newest first.
func (r *Repository) ListRecordsByOwner(ctx context.Context, kind model.RecordKind, ownerID string) ([]*model.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`, recordColumns, table)

	return r.queryRecords(ctx, kind, query, ownerID)
}

// ListRecordsByOwnerBetween returns the owner's records dated within
// [from, to], both ends inclusive, newest first.
func (r *Repository) ListRecordsByOwnerBetween(ctx context.Context, kind model.RecordKind, ownerID string, from, to time.Time) ([]*model.Record, error) {
	table, err := recordTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC, created_at DESC
	`, recordColumns, table)

	return r.queryRecords(ctx, kind, query, ownerID, from, to)
}

// UpdateRecord overwrites the domain fields of a record. The owner column is
// only used to scope the update and is never written.
func (r *Repository) UpdateRecord(ctx context.Context, rec *model.Record) error {
	table, err := recordTable(rec.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $3, description = $4, category = $5, date = $6, amount = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`, table)

	tag, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Title,
		rec.Description,
		rec.Category,
		rec.Date,
		rec.Amount,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rec.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// DeleteRecord removes a record owned by ownerID.
func (r *Repository) DeleteRecord(ctx context.Context, kind model.RecordKind, ownerID, id string) error {
	table, err := recordTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *Repository) queryRecords(ctx context.Context, kind model.RecordKind, query string, args ...any) ([]*model.Record, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	defer rows.Close()

	records := []*model.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s records: %w", kind, err)
	}

	return records, nil
}

func scanRecord(row scanner, kind model.RecordKind) (*model.Record, error) {
	rec := model.Record{Kind: kind}
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Description,
		&rec.Category,
		&rec.Date,
		&rec.Amount,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Date = model.TruncateDate(rec.Date)
	return &rec, nil
}
