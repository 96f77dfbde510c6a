package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts travel as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar-day format used for transaction dates and range bounds
const DateLayout = "2006-01-02"

// TransactionType is the closed set of ledger entry kinds
type TransactionType string

const (
	Credit TransactionType = "Credit"
	Debit  TransactionType = "Debit"
)

// Valid reports whether t is Credit or Debit
func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

// Category is a category name tagged with the transaction type it belongs to
type Category struct {
	Type TransactionType
	Name string
}

// NewCategory picks the category matching the type from the two form fields.
// Credit requires creditCategory, Debit requires debitCategory.
func NewCategory(t TransactionType, creditCategory, debitCategory string) (Category, error) {
	switch t {
	case Credit:
		name := strings.TrimSpace(creditCategory)
		if name == "" {
			return Category{}, NewValidationError("Credit category is required.")
		}
		return Category{Type: Credit, Name: name}, nil
	case Debit:
		name := strings.TrimSpace(debitCategory)
		if name == "" {
			return Category{}, NewValidationError("Debit category is required.")
		}
		return Category{Type: Debit, Name: name}, nil
	default:
		return Category{}, NewValidationError("type must be Credit or Debit")
	}
}

// Transaction represents a single ledger entry owned by one user
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        TransactionType `json:"type" db:"type"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Date        time.Time       `json:"date" db:"date"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// SetCategory stores the tagged category on the flat record
func (t *Transaction) SetCategory(c Category) {
	t.Type = c.Type
	t.Category = c.Name
}

// TransactionRequest is the body of the add and update endpoints
type TransactionRequest struct {
	Amount         decimal.Decimal `json:"amount" form:"amount"`
	Type           TransactionType `json:"type" form:"type" validate:"required,oneof=Credit Debit"`
	CreditCategory string          `json:"creditCategory" form:"creditCategory"`
	DebitCategory  string          `json:"debitCategory" form:"debitCategory"`
	Description    string          `json:"description" form:"description" validate:"max=500"`
	Date           string          `json:"date" form:"date" validate:"required"`
}

// Fields validates the request and returns the mutable fields of a transaction
func (r *TransactionRequest) Fields() (*Transaction, error) {
	if !r.Amount.IsPositive() {
		return nil, NewValidationError("amount must be greater than zero")
	}

	category, err := NewCategory(r.Type, r.CreditCategory, r.DebitCategory)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	txn := &Transaction{
		Amount:      r.Amount,
		Description: strings.TrimSpace(r.Description),
		Date:        date,
	}
	txn.SetCategory(category)
	return txn, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day at UTC midnight
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewValidationError("date is required")
	}

	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date %q, expected YYYY-MM-DD", value)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateRange is an inclusive calendar-day window. A nil bound means unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// DateRangeRequest is the body of POST /transactions
type DateRangeRequest struct {
	StartDate string `json:"startDate" form:"startDate" query:"startDate"`
	EndDate   string `json:"endDate" form:"endDate" query:"endDate"`
}

// Range parses the bounds. Filtering only applies when both bounds are present.
func (r *DateRangeRequest) Range() (DateRange, error) {
	if strings.TrimSpace(r.StartDate) == "" || strings.TrimSpace(r.EndDate) == "" {
		return DateRange{}, nil
	}

	start, err := ParseDate(r.StartDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return DateRange{}, err
	}
	if start.After(end) {
		return DateRange{}, NewValidationError("startDate must not be after endDate")
	}

	return DateRange{Start: &start, End: &end}, nil
}

// IsBounded reports whether both bounds are set
func (r DateRange) IsBounded() bool {
	return r.Start != nil && r.End != nil
}

// Contains reports whether d falls inside the window, both ends inclusive.
// The end bound covers the whole day.
func (r DateRange) Contains(d time.Time) bool {
	if !r.IsBounded() {
		return true
	}
	endOfDay := r.End.Add(24*time.Hour - time.Nanosecond)
	return !d.Before(*r.Start) && !d.After(endOfDay)
}

// TransactionFilter narrows a listing. An empty Type matches both kinds.
type TransactionFilter struct {
	Type  TransactionType
	Range DateRange
}

// Matches reports whether txn passes the filter
func (f TransactionFilter) Matches(txn *Transaction) bool {
	if f.Type != "" && txn.Type != f.Type {
		return false
	}
	return f.Range.Contains(txn.Date)
}
