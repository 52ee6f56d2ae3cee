package http

import (
	"errors"
	"log/slog"
	"net/http"

	"budgetbook/internal/services"
)

// handleListRecurring returns every recurring template with its
// projected next occurrence.
func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	projections := s.recurring.List()
	if projections == nil {
		projections = []services.Projection{}
	}
	writeJSON(w, r, http.StatusOK, projections)
}

// handleApplyRecurring materializes a recurring template as a fresh
// transaction dated today.
func (s *Server) handleApplyRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	created, found, err := s.recurring.ApplyNow(r.Context(), id)
	if !found {
		writeNotFound(w, r)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrNotRecurring) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Applying recurring transaction failed", "request_id", requestIDFromContext(r.Context()), "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not save transaction")
		return
	}

	s.purgeDerived()
	writeJSON(w, r, http.StatusCreated, created)
}
