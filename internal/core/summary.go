package core

// MonthlySummary aggregates income, expenses, and their balance for one
// YYYY-MM month. Derived data; never persisted.
type MonthlySummary struct {
	Month    string `json:"month"`
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
	Balance  Money  `json:"balance"`
}

// CategorySummary aggregates one expense category's spending for a month:
// summed amount, record count, and share of the month's total expenses.
type CategorySummary struct {
	Category   string  `json:"category"`
	Amount     Money   `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
