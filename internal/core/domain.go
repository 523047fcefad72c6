package core

import (
	"errors"
	"strings"
	"time"
)

// CategoryIncome is the reserved category assigned to income records.
// Every transaction in this category carries a non-negative amount.
const CategoryIncome = "Income"

const (
	Income  RecordType = "income"
	Expense RecordType = "expense"
)

type (
	// RecordType classifies a ledger entry at creation time and decides
	// the sign of its amount.
	RecordType string

	Date struct {
		time.Time
	}

	// Money is a signed amount in cents. Negative cents are expenses,
	// positive cents are income.
	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry owned by one user.
	Transaction struct {
		ID       int64
		Owner    string
		Category string
		Amount   Money
		Note     string
		Date     Date
		Tags     string
	}

	// Budget is a per-owner, per-category spending limit. A zero limit
	// means "no limit set".
	Budget struct {
		Owner    string
		Category string
		Limit    Money
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyOwner      = errors.New("empty owner")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidKind     = errors.New("invalid record type")
	ErrNegativeBudget  = errors.New("budget limit cannot be negative")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
	ErrCategoryTooLong = errors.New("category too long (max 100 characters)")
)

// ParseDate parses a calendar date in strict YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date back in its wire form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Period returns the calendar year-month key (YYYY-MM) the date falls in.
func (d Date) Period() string {
	return d.Format("2006-01")
}

func (rt RecordType) Validate() error {
	switch rt {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Normalize coerces the transaction amount sign to match its category:
// the reserved income category is forced non-negative, everything else
// non-positive. Callers may pass any sign; the stored sign is derived
// here, never trusted from input.
func (t *Transaction) Normalize() {
	abs := t.Amount.Abs()
	if t.Category == CategoryIncome {
		t.Amount = abs
	} else {
		t.Amount = Money{Cents: -abs.Cents}
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > 100 {
		return ErrCategoryTooLong
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	return t.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Owner) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.Cents < 0 {
		return ErrNegativeBudget
	}
	return nil
}
