package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/report"
)

// handleReport renders the month's PDF report as a download.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, core.ErrInvalidMonth.Error())
		return
	}
	label := parsed.Format("January 2006")

	txs := s.store.Transactions()
	data := report.Data{
		Totals:       core.MonthlyTotals(txs, month),
		Categories:   core.CategorySummaries(txs, month),
		Transactions: txs,
		PeriodLabel:  label,
	}

	out, err := s.reports.Generate(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report generation failed", "request_id", requestIDFromContext(r.Context()), "error", err, "month", month)
		writeError(w, r, http.StatusInternalServerError, "could not generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(label)))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
