package http

import (
	"net/http"

	"budgetbook/internal/core"
)

// handleMonthlySummary returns income, expenses, and balance for a month.
// Results are cached per month until the next mutation.
func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if cached, ok := s.summaryCache.Get(month); ok {
		writeJSON(w, r, http.StatusOK, cached)
		return
	}

	summary := core.MonthlyTotals(s.store.Transactions(), month)
	s.summaryCache.Set(month, summary)
	writeJSON(w, r, http.StatusOK, summary)
}

// handleCategorySummaries returns the month's expense breakdown by
// category, in first-occurrence order.
func (s *Server) handleCategorySummaries(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if cached, ok := s.categoryCache.Get(month); ok {
		writeJSON(w, r, http.StatusOK, cached)
		return
	}

	summaries := core.CategorySummaries(s.store.Transactions(), month)
	s.categoryCache.Set(month, summaries)
	writeJSON(w, r, http.StatusOK, summaries)
}
