package model

import "time"

// RecordKind distinguishes the two ledgers a user keeps.
type RecordKind string

const (
	KindExpense RecordKind = "expense"
	KindIncome  RecordKind = "income"
)

// IsValid checks if the kind is one of the known ledgers.
func (k RecordKind) IsValid() bool {
	return k == KindExpense || k == KindIncome
}

// Label returns the capitalized kind for user-facing messages.
func (k RecordKind) Label() string {
	switch k {
	case KindExpense:
		return "Expense"
	case KindIncome:
		return "Income"
	default:
		return "Record"
	}
}

// DateLayout is the wire and storage format for record dates.
const DateLayout = "2006-01-02"

// Record is a single expense or income entry owned by one identity.
type Record struct {
	ID          string     `json:"id"`
	Kind        RecordKind `json:"kind"`
	OwnerID     string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Date        time.Time  `json:"date"`
	Amount      int64      `json:"amount"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Owner returns the identity ID that owns the record.
func (r *Record) Owner() string {
	return r.OwnerID
}

// NewerThan orders records by date, then by creation time.
func (r *Record) NewerThan(other *Record) bool {
	if !r.Date.Equal(other.Date) {
		return r.Date.After(other.Date)
	}
	return r.CreatedAt.After(other.CreatedAt)
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthsBefore steps t back n calendar months. The day is clamped to the
// last day of the target month, so Dec 31 minus 10 months is Feb 28.
func MonthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
