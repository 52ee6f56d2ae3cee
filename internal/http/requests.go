package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

// maxBodySize caps request bodies at 1 MiB.
const maxBodySize = 1 << 20

var errEmptyBody = errors.New("empty request body")

// decodeJSON reads and strictly decodes a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// transactionRequest is the create payload. Amount arrives as a JSON
// number or string and is parsed to cents at the boundary.
type transactionRequest struct {
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Recurring   bool        `json:"recurring"`
	Frequency   string      `json:"frequency"`
}

func (req transactionRequest) toDraft() (store.TransactionDraft, error) {
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return store.TransactionDraft{}, err
	}
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return store.TransactionDraft{}, err
	}

	d := store.TransactionDraft{
		Kind:        core.Kind(strings.TrimSpace(req.Type)),
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Recurring:   req.Recurring,
		Frequency:   core.Frequency(strings.TrimSpace(req.Frequency)),
	}

	probe := core.Transaction{
		Kind:        d.Kind,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
		Recurring:   d.Recurring,
		Frequency:   d.Frequency,
	}
	if err := probe.Validate(); err != nil {
		return store.TransactionDraft{}, err
	}
	return d, nil
}

// transactionPatchRequest is the partial-update payload; absent fields
// leave the record untouched.
type transactionPatchRequest struct {
	Type        *string      `json:"type"`
	Amount      *json.Number `json:"amount"`
	Category    *string      `json:"category"`
	Description *string      `json:"description"`
	Date        *string      `json:"date"`
	Recurring   *bool        `json:"recurring"`
	Frequency   *string      `json:"frequency"`
}

func (req transactionPatchRequest) toPatch(current core.Transaction) (store.TransactionPatch, error) {
	var p store.TransactionPatch
	merged := current

	if req.Type != nil {
		k := core.Kind(strings.TrimSpace(*req.Type))
		p.Kind = &k
		merged.Kind = k
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(req.Amount.String())
		if err != nil {
			return store.TransactionPatch{}, err
		}
		m := core.Money{Cents: cents}
		p.Amount = &m
		merged.Amount = m
	}
	if req.Category != nil {
		c := strings.TrimSpace(*req.Category)
		p.Category = &c
		merged.Category = c
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		p.Description = &d
		merged.Description = d
	}
	if req.Date != nil {
		date, err := core.ParseDate(strings.TrimSpace(*req.Date))
		if err != nil {
			return store.TransactionPatch{}, err
		}
		p.Date = &date
		merged.Date = date
	}
	if req.Recurring != nil {
		p.Recurring = req.Recurring
		merged.Recurring = *req.Recurring
	}
	if req.Frequency != nil {
		f := core.Frequency(strings.TrimSpace(*req.Frequency))
		p.Frequency = &f
		merged.Frequency = f
	}

	// The record must still validate after the merge.
	if err := merged.Validate(); err != nil {
		return store.TransactionPatch{}, err
	}
	return p, nil
}

// goalRequest is the budget goal create payload.
type goalRequest struct {
	Category string      `json:"category"`
	Limit    json.Number `json:"limit"`
	Month    string      `json:"month"`
}

func (req goalRequest) toDraft() (store.GoalDraft, error) {
	cents, err := core.ParseDecimalToCents(req.Limit.String())
	if err != nil {
		return store.GoalDraft{}, err
	}
	d := store.GoalDraft{
		Category: strings.TrimSpace(req.Category),
		Limit:    core.Money{Cents: cents},
		Month:    strings.TrimSpace(req.Month),
	}
	probe := core.BudgetGoal{Category: d.Category, Limit: d.Limit, Month: d.Month}
	if err := probe.Validate(); err != nil {
		return store.GoalDraft{}, err
	}
	return d, nil
}

// goalPatchRequest is the partial goal update payload.
type goalPatchRequest struct {
	Category *string      `json:"category"`
	Limit    *json.Number `json:"limit"`
	Month    *string      `json:"month"`
}

func (req goalPatchRequest) toPatch(current core.BudgetGoal) (store.GoalPatch, error) {
	var p store.GoalPatch
	merged := current

	if req.Category != nil {
		c := strings.TrimSpace(*req.Category)
		p.Category = &c
		merged.Category = c
	}
	if req.Limit != nil {
		cents, err := core.ParseDecimalToCents(req.Limit.String())
		if err != nil {
			return store.GoalPatch{}, err
		}
		m := core.Money{Cents: cents}
		p.Limit = &m
		merged.Limit = m
	}
	if req.Month != nil {
		mo := strings.TrimSpace(*req.Month)
		p.Month = &mo
		merged.Month = mo
	}

	if err := merged.Validate(); err != nil {
		return store.GoalPatch{}, err
	}
	return p, nil
}

// parseFilters builds transaction filters from query parameters.
// Malformed values are rejected rather than silently ignored.
func parseFilters(query url.Values) (core.TransactionFilters, error) {
	var f core.TransactionFilters

	f.Category = strings.TrimSpace(query.Get("category"))
	f.Search = strings.TrimSpace(query.Get("search"))

	if v := strings.TrimSpace(query.Get("dateStart")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("dateStart: %w", err)
		}
		f.DateStart = d
	}
	if v := strings.TrimSpace(query.Get("dateEnd")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("dateEnd: %w", err)
		}
		f.DateEnd = d
	}
	if v := strings.TrimSpace(query.Get("amountMin")); v != "" {
		cents, err := core.ParseCents(v)
		if err != nil {
			return f, fmt.Errorf("amountMin: %w", err)
		}
		f.AmountMin = &core.Money{Cents: cents}
	}
	if v := strings.TrimSpace(query.Get("amountMax")); v != "" {
		cents, err := core.ParseCents(v)
		if err != nil {
			return f, fmt.Errorf("amountMax: %w", err)
		}
		f.AmountMax = &core.Money{Cents: cents}
	}

	return f, nil
}

// parseMonth extracts a YYYY-MM month from the query, defaulting to the
// current month when absent.
func parseMonth(query url.Values) (string, error) {
	m := strings.TrimSpace(query.Get("month"))
	if m == "" {
		return core.CurrentMonth(), nil
	}
	if !core.ValidMonth(m) {
		return "", core.ErrInvalidMonth
	}
	return m, nil
}
