package http

import (
	"log/slog"
	"net/http"

	"budgetbook/internal/core"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.store.Goals()
	if goals == nil {
		goals = []core.BudgetGoal{}
	}
	writeJSON(w, r, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddGoal(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Creating goal failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, "could not save goal")
		return
	}

	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	current, ok := s.store.Goal(id)
	if !ok {
		writeNotFound(w, r)
		return
	}

	var req goalPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := req.toPatch(current)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	found, err := s.store.UpdateGoal(r.Context(), id, patch)
	if err != nil {
		slog.ErrorContext(r.Context(), "Updating goal failed", "request_id", requestIDFromContext(r.Context()), "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not save goal")
		return
	}
	if !found {
		writeNotFound(w, r)
		return
	}

	updated, _ := s.store.Goal(id)
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := s.store.DeleteGoal(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Deleting goal failed", "request_id", requestIDFromContext(r.Context()), "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not save goals")
		return
	}
	if !found {
		writeNotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
