package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	// Frequency is the repetition cadence of a recurring transaction.
	Frequency string

	// Date is a calendar date; the time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is a single recorded income or expense event.
	Transaction struct {
		ID          string    `json:"id"`
		Kind        Kind      `json:"type"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
		Recurring   bool      `json:"recurring,omitempty"`
		Frequency   Frequency `json:"frequency,omitempty"`
	}

	// BudgetGoal is a user-set spending ceiling for one expense category
	// in one month. Duplicate (category, month) pairs are allowed; lookups
	// that care use the most recently added goal.
	BudgetGoal struct {
		ID       string `json:"id"`
		Category string `json:"category"`
		Limit    Money  `json:"limit"`
		Month    string `json:"month"`
	}

	// TransactionFilters is a transient query over a transaction list.
	// The zero value of each field means "no constraint on that field".
	TransactionFilters struct {
		Category  string
		DateStart Date
		DateEnd   Date
		AmountMin *Money
		AmountMax *Money
		Search    string
	}
)

var (
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidMonth     = errors.New("invalid month")
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the YYYY-MM prefix of the date, the grouping key used
// by the aggregation engine.
func (d Date) MonthKey() string {
	return d.Format(monthLayout)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string. Empty or null input leaves
// the date zero so legacy records without the field still load.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

func (f Frequency) IsValid() bool {
	return f == Weekly || f == Monthly
}

// ValidMonth reports whether s is a well-formed YYYY-MM month string.
func ValidMonth(s string) bool {
	_, err := time.Parse(monthLayout, s)
	return err == nil
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !ValidCategory(t.Kind, t.Category) {
		return ErrUnknownCategory
	}
	if t.Frequency != "" && !t.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (g BudgetGoal) Validate() error {
	if !ValidCategory(Expense, g.Category) {
		return ErrUnknownCategory
	}
	if err := g.Limit.Validate(); err != nil {
		return err
	}
	if !ValidMonth(g.Month) {
		return ErrInvalidMonth
	}
	return nil
}
