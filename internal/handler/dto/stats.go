package dto

import "github.com/fintrack/fintrack/internal/model"

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	Income        int64           `json:"income"`
	Expense       int64           `json:"expense"`
	Balance       int64           `json:"balance"`
	LatestIncome  *RecordResponse `json:"latest_income,omitempty"`
	LatestExpense *RecordResponse `json:"latest_expense,omitempty"`
	MinIncome     int64           `json:"min_income"`
	MaxIncome     int64           `json:"max_income"`
	MinExpense    int64           `json:"min_expense"`
	MaxExpense    int64           `json:"max_expense"`
}

// ToStatsResponse converts stats to their wire form. Latest entries are
// omitted for an empty ledger.
func ToStatsResponse(s *model.Stats) *StatsResponse {
	resp := &StatsResponse{
		Income:     s.Income,
		Expense:    s.Expense,
		Balance:    s.Balance,
		MinIncome:  s.MinIncome,
		MaxIncome:  s.MaxIncome,
		MinExpense: s.MinExpense,
		MaxExpense: s.MaxExpense,
	}
	if s.LatestIncome != nil {
		resp.LatestIncome = ToRecordResponse(s.LatestIncome)
	}
	if s.LatestExpense != nil {
		resp.LatestExpense = ToRecordResponse(s.LatestExpense)
	}
	return resp
}

// ChartResponse is returned by GET /api/stats/chart.
type ChartResponse struct {
	IncomeList  []RecordResponse `json:"income_list"`
	ExpenseList []RecordResponse `json:"expense_list"`
}

// ToChartResponse converts chart data to its wire form.
func ToChartResponse(c *model.Chart) *ChartResponse {
	return &ChartResponse{
		IncomeList:  ToRecordList(c.Incomes),
		ExpenseList: ToRecordList(c.Expenses),
	}
}
