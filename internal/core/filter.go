package core

import "strings"

// ApplyFilters returns the transactions passing every constraint present
// in f, in their original relative order. The input is never mutated and
// the result is always a fresh slice; empty filters act as identity.
func ApplyFilters(txs []Transaction, f TransactionFilters) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f TransactionFilters) matches(t Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if !f.DateStart.IsZero() && t.Date.Before(f.DateStart.Time) {
		return false
	}
	if !f.DateEnd.IsZero() && t.Date.After(f.DateEnd.Time) {
		return false
	}
	if f.AmountMin != nil && t.Amount.Cents < f.AmountMin.Cents {
		return false
	}
	if f.AmountMax != nil && t.Amount.Cents > f.AmountMax.Cents {
		return false
	}
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}
