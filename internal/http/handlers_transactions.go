package http

import (
	"log/slog"
	"net/http"

	"budgetbook/internal/core"
)

// handleListTransactions returns the transaction collection, newest
// first, optionally narrowed by query filters.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	txs := core.ApplyFilters(s.store.Transactions(), filters)
	writeJSON(w, r, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.Add(r.Context(), draft)
	if err != nil {
		slog.ErrorContext(r.Context(), "Creating transaction failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, "could not save transaction")
		return
	}

	s.purgeDerived()
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	current, ok := s.store.Transaction(id)
	if !ok {
		writeNotFound(w, r)
		return
	}

	var req transactionPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := req.toPatch(current)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	found, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		slog.ErrorContext(r.Context(), "Updating transaction failed", "request_id", requestIDFromContext(r.Context()), "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not save transaction")
		return
	}
	if !found {
		writeNotFound(w, r)
		return
	}

	s.purgeDerived()
	updated, _ := s.store.Transaction(id)
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := s.store.Delete(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Deleting transaction failed", "request_id", requestIDFromContext(r.Context()), "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not save transactions")
		return
	}
	if !found {
		writeNotFound(w, r)
		return
	}

	s.purgeDerived()
	w.WriteHeader(http.StatusNoContent)
}

// handleListCategories returns the static category registry for a kind.
// The kind defaults to expense.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	kind := core.Kind(r.URL.Query().Get("type"))
	if kind == "" {
		kind = core.Expense
	}
	if !kind.IsValid() {
		writeError(w, r, http.StatusBadRequest, core.ErrInvalidKind.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, core.Categories(kind))
}
