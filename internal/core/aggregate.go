package core

import "time"

// CurrentMonth returns the current calendar month as YYYY-MM in UTC, the
// default period for the aggregation engine.
func CurrentMonth() string {
	return time.Now().UTC().Format(monthLayout)
}

// MonthlyTotals computes income, expense, and balance totals for the
// transactions dated within month (YYYY-MM). An empty month means the
// current calendar month. Pure: recomputed on every call.
func MonthlyTotals(txs []Transaction, month string) MonthlySummary {
	if month == "" {
		month = CurrentMonth()
	}

	var income, expenses int64
	for _, t := range txs {
		if t.Date.MonthKey() != month {
			continue
		}
		switch t.Kind {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expenses += t.Amount.Cents
		}
	}

	return MonthlySummary{
		Month:    month,
		Income:   Money{Cents: income},
		Expenses: Money{Cents: expenses},
		Balance:  Money{Cents: income - expenses},
	}
}

// CategorySummaries groups the month's expense transactions by category,
// summing amounts and counting records per group. Percentage is each
// group's share of the month's total expenses; all zero when the total is
// zero. Groups appear in first-occurrence order among the filtered
// transactions; callers needing sorted output sort explicitly.
func CategorySummaries(txs []Transaction, month string) []CategorySummary {
	if month == "" {
		month = CurrentMonth()
	}

	var order []string
	groups := make(map[string]*CategorySummary)
	var total int64

	for _, t := range txs {
		if t.Kind != Expense || t.Date.MonthKey() != month {
			continue
		}
		g, ok := groups[t.Category]
		if !ok {
			g = &CategorySummary{Category: t.Category}
			groups[t.Category] = g
			order = append(order, t.Category)
		}
		g.Amount.Cents += t.Amount.Cents
		g.Count++
		total += t.Amount.Cents
	}

	out := make([]CategorySummary, 0, len(order))
	for _, id := range order {
		g := *groups[id]
		if total > 0 {
			g.Percentage = float64(g.Amount.Cents) / float64(total) * 100
		}
		out = append(out, g)
	}
	return out
}
