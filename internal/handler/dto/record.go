package dto

import (
	"time"

	"github.com/fintrack/fintrack/internal/model"
	"github.com/fintrack/fintrack/internal/service"
)

// RecordRequest is the body of create and update requests for expenses
// and incomes. Ownership is never part of the body.
type RecordRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Amount      int64  `json:"amount"`
}

// ToInput converts the request to service input.
func (r RecordRequest) ToInput() service.RecordInput {
	return service.RecordInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
		Amount:      r.Amount,
	}
}

// RecordResponse represents an expense or income in API responses.
type RecordResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToRecordResponse converts a Record model to RecordResponse DTO.
func ToRecordResponse(rec *model.Record) *RecordResponse {
	return &RecordResponse{
		ID:          rec.ID,
		Kind:        string(rec.Kind),
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Date:        rec.Date.Format(model.DateLayout),
		Amount:      rec.Amount,
		CreatedAt:   rec.CreatedAt.UTC(),
		UpdatedAt:   rec.UpdatedAt.UTC(),
	}
}

// ToRecordList converts records to DTOs. The result is never nil so an
// empty ledger encodes as [].
func ToRecordList(records []*model.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, *ToRecordResponse(rec))
	}
	return out
}
