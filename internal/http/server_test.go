package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgetbook/internal/core"
	"budgetbook/internal/storage/memory"
	"budgetbook/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), memory.New())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	srv := NewServer(":0", st, Options{})
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv, st
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(t, srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":50.00,"category":"food","description":"groceries","date":"2024-03-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Amount.Cents != 5000 {
		t.Errorf("amount = %d cents, want 5000", created.Amount.Cents)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed json",
			body: `{"type":`,
		},
		{
			name: "empty body",
			body: " ",
		},
		{
			name: "unknown field",
			body: `{"type":"expense","amount":1,"category":"food","description":"x","date":"2024-03-01","extra":true}`,
		},
		{
			name: "zero amount",
			body: `{"type":"expense","amount":0,"category":"food","description":"x","date":"2024-03-01"}`,
		},
		{
			name: "negative amount",
			body: `{"type":"expense","amount":-5,"category":"food","description":"x","date":"2024-03-01"}`,
		},
		{
			name: "unknown category",
			body: `{"type":"expense","amount":1,"category":"bogus","description":"x","date":"2024-03-01"}`,
		},
		{
			name: "income category on expense",
			body: `{"type":"expense","amount":1,"category":"salary","description":"x","date":"2024-03-01"}`,
		},
		{
			name: "blank description",
			body: `{"type":"expense","amount":1,"category":"food","description":"   ","date":"2024-03-01"}`,
		},
		{
			name: "bad date",
			body: `{"type":"expense","amount":1,"category":"food","description":"x","date":"03/01/2024"}`,
		},
		{
			name: "bad kind",
			body: `{"type":"transfer","amount":1,"category":"food","description":"x","date":"2024-03-01"}`,
		},
		{
			name: "bad frequency",
			body: `{"type":"expense","amount":1,"category":"food","description":"x","date":"2024-03-01","recurring":true,"frequency":"daily"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestListTransactionsFiltered(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	seed := []store.TransactionDraft{
		{Kind: core.Expense, Amount: core.Money{Cents: 1000}, Category: "food", Description: "breakfast", Date: core.NewDate(2024, 3, 1)},
		{Kind: core.Expense, Amount: core.Money{Cents: 15000}, Category: "transport", Description: "train ticket", Date: core.NewDate(2024, 3, 5)},
		{Kind: core.Income, Amount: core.Money{Cents: 20000}, Category: "freelance", Description: "gig", Date: core.NewDate(2024, 3, 10)},
	}
	for _, d := range seed {
		if _, err := st.Add(ctx, d); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	var list []core.Transaction

	rr := doRequest(t, srv, http.MethodGet, "/api/transactions", "")
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	// Most recently added first.
	if list[0].Description != "gig" {
		t.Errorf("expected newest first, got %q", list[0].Description)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/transactions?amountMin=100&search=ticket", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Category != "transport" {
		t.Fatalf("filter mismatch: %+v", list)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/transactions?dateStart=bogus", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed filter should 400, got %d", rr.Code)
	}
}

func TestUpdateTransaction(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	tx, err := st.Add(ctx, store.TransactionDraft{
		Kind: core.Expense, Amount: core.Money{Cents: 1000}, Category: "food",
		Description: "lunch", Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := doRequest(t, srv, http.MethodPatch, "/api/transactions/"+tx.ID, `{"amount":12.50}`)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var updated core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Amount.Cents != 1250 {
		t.Errorf("amount = %d, want 1250", updated.Amount.Cents)
	}
	if updated.Description != "lunch" {
		t.Errorf("untouched field changed: %q", updated.Description)
	}

	// A patch that breaks validation is rejected.
	rr = doRequest(t, srv, http.MethodPatch, "/api/transactions/"+tx.ID, `{"category":"salary"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid merge should 400, got %d", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodPatch, "/api/transactions/missing", `{"amount":1}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id should 404, got %d", rr.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, st := newTestServer(t)

	tx, err := st.Add(context.Background(), store.TransactionDraft{
		Kind: core.Expense, Amount: core.Money{Cents: 1000}, Category: "food",
		Description: "lunch", Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := doRequest(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete should 404, got %d", rr.Code)
	}
}

func TestListCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	var cats []core.Category

	rr := doRequest(t, srv, http.MethodGet, "/api/categories", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 8 {
		t.Errorf("expected 8 expense categories, got %d", len(cats))
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/categories?type=income", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 4 {
		t.Errorf("expected 4 income categories, got %d", len(cats))
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/categories?type=other", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad kind should 400, got %d", rr.Code)
	}
}

func TestMonthlySummaryReflectsMutations(t *testing.T) {
	srv, _ := newTestServer(t)

	post := func(body string) {
		t.Helper()
		if rr := doRequest(t, srv, http.MethodPost, "/api/transactions", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", rr.Code, rr.Body.String())
		}
	}
	post(`{"type":"income","amount":2000,"category":"salary","description":"pay","date":"2024-03-01"}`)

	var summary core.MonthlySummary
	rr := doRequest(t, srv, http.MethodGet, "/api/summary?month=2024-03", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Income.Cents != 200000 || summary.Balance.Cents != 200000 {
		t.Fatalf("summary mismatch: %+v", summary)
	}

	// A creation after the cached read must show up immediately.
	post(`{"type":"expense","amount":50,"category":"food","description":"groceries","date":"2024-03-02"}`)

	rr = doRequest(t, srv, http.MethodGet, "/api/summary?month=2024-03", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Expenses.Cents != 5000 || summary.Balance.Cents != 195000 {
		t.Fatalf("stale summary after mutation: %+v", summary)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/summary?month=march", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed month should 400, got %d", rr.Code)
	}
}

func TestCategorySummaries(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{
		`{"type":"expense","amount":30,"category":"food","description":"a","date":"2024-03-01"}`,
		`{"type":"expense","amount":50,"category":"transport","description":"b","date":"2024-03-02"}`,
		`{"type":"expense","amount":20,"category":"food","description":"c","date":"2024-03-03"}`,
	} {
		if rr := doRequest(t, srv, http.MethodPost, "/api/transactions", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d", rr.Code)
		}
	}

	var sums []core.CategorySummary
	rr := doRequest(t, srv, http.MethodGet, "/api/summary/categories?month=2024-03", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &sums); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(sums))
	}
	for _, s := range sums {
		switch s.Category {
		case "food":
			if s.Amount.Cents != 5000 || s.Count != 2 || s.Percentage != 50 {
				t.Errorf("food summary mismatch: %+v", s)
			}
		case "transport":
			if s.Amount.Cents != 5000 || s.Count != 1 || s.Percentage != 50 {
				t.Errorf("transport summary mismatch: %+v", s)
			}
		default:
			t.Errorf("unexpected category %q", s.Category)
		}
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodPost, "/api/goals",
		`{"category":"food","limit":300,"month":"2024-03"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var goal core.BudgetGoal
	if err := json.Unmarshal(rr.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if goal.ID == "" || goal.Limit.Cents != 30000 {
		t.Fatalf("goal mismatch: %+v", goal)
	}

	rr = doRequest(t, srv, http.MethodPatch, "/api/goals/"+goal.ID, `{"limit":250.50}`)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if goal.Limit.Cents != 25050 {
		t.Errorf("limit = %d, want 25050", goal.Limit.Cents)
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/goals", "")
	var goals []core.BudgetGoal
	if err := json.Unmarshal(rr.Body.Bytes(), &goals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}

	rr = doRequest(t, srv, http.MethodDelete, "/api/goals/"+goal.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodDelete, "/api/goals/"+goal.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete should 404, got %d", rr.Code)
	}
}

func TestGoalValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "income category", body: `{"category":"salary","limit":300,"month":"2024-03"}`},
		{name: "zero limit", body: `{"category":"food","limit":0,"month":"2024-03"}`},
		{name: "bad month", body: `{"category":"food","limit":300,"month":"March"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, srv, http.MethodPost, "/api/goals", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestRecurringEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	tmpl, err := st.Add(ctx, store.TransactionDraft{
		Kind: core.Expense, Amount: core.Money{Cents: 1500}, Category: "utilities",
		Description: "internet", Date: core.NewDate(2024, 3, 1),
		Recurring: true, Frequency: core.Monthly,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	plain, err := st.Add(ctx, store.TransactionDraft{
		Kind: core.Expense, Amount: core.Money{Cents: 500}, Category: "food",
		Description: "coffee", Date: core.NewDate(2024, 3, 2),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := doRequest(t, srv, http.MethodGet, "/api/recurring", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	var projections []struct {
		Transaction core.Transaction `json:"transaction"`
		NextDue     string           `json:"nextDue"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &projections); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(projections) != 1 || projections[0].Transaction.ID != tmpl.ID {
		t.Fatalf("projection mismatch: %+v", projections)
	}
	if projections[0].NextDue != "2024-04-01" {
		t.Errorf("next due = %s, want 2024-04-01", projections[0].NextDue)
	}

	rr = doRequest(t, srv, http.MethodPost, "/api/recurring/"+tmpl.ID+"/apply", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Recurring {
		t.Error("materialized occurrence must not be recurring")
	}

	rr = doRequest(t, srv, http.MethodPost, "/api/recurring/missing/apply", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id should 404, got %d", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodPost, "/api/recurring/"+plain.ID+"/apply", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("non-recurring id should 400, got %d", rr.Code)
	}
}

func TestReportDownload(t *testing.T) {
	srv, st := newTestServer(t)

	if _, err := st.Add(context.Background(), store.TransactionDraft{
		Kind: core.Income, Amount: core.Money{Cents: 200000}, Category: "salary",
		Description: "pay", Date: core.NewDate(2024, 3, 1),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := doRequest(t, srv, http.MethodGet, "/api/report?month=2024-03", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "budget-report-march-2024.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Error("body is not a PDF document")
	}

	rr = doRequest(t, srv, http.MethodGet, "/api/report?month=bogus", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed month should 400, got %d", rr.Code)
	}
}

func TestRequestIDReachesHandlers(t *testing.T) {
	srv, _ := newTestServer(t)

	var got string
	handler := srv.withSecurityHeaders(func(w http.ResponseWriter, r *http.Request) {
		got = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	if !strings.HasPrefix(got, "req_") {
		t.Errorf("request id = %q, want req_ prefix", got)
	}
	if id := requestIDFromContext(context.Background()); id != "" {
		t.Errorf("request id without middleware = %q, want empty", id)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/api/transactions", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
