package model

// Stats summarizes a user's ledgers.
type Stats struct {
	Income        int64   `json:"income"`
	Expense       int64   `json:"expense"`
	Balance       int64   `json:"balance"`
	LatestIncome  *Record `json:"latest_income,omitempty"`
	LatestExpense *Record `json:"latest_expense,omitempty"`
	MinIncome     int64   `json:"min_income"`
	MaxIncome     int64   `json:"max_income"`
	MinExpense    int64   `json:"min_expense"`
	MaxExpense    int64   `json:"max_expense"`
}

// Chart holds the records plotted on the dashboard.
type Chart struct {
	Incomes  []*Record `json:"income_list"`
	Expenses []*Record `json:"expense_list"`
}

// Summarize aggregates records into stats. Empty ledgers yield zero
// totals, zero min/max and no latest entry.
func Summarize(incomes, expenses []*Record) *Stats {
	stats := &Stats{}

	stats.Income, stats.MinIncome, stats.MaxIncome, stats.LatestIncome = aggregate(incomes)
	stats.Expense, stats.MinExpense, stats.MaxExpense, stats.LatestExpense = aggregate(expenses)
	stats.Balance = stats.Income - stats.Expense

	return stats
}

func aggregate(records []*Record) (total, minAmount, maxAmount int64, latest *Record) {
	for i, r := range records {
		total += r.Amount
		if i == 0 || r.Amount < minAmount {
			minAmount = r.Amount
		}
		if i == 0 || r.Amount > maxAmount {
			maxAmount = r.Amount
		}
		if latest == nil || r.NewerThan(latest) {
			latest = r
		}
	}
	return total, minAmount, maxAmount, latest
}
