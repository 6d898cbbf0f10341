package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	FilterAll   FilterMode = "all"
	FilterWeek  FilterMode = "week"
	FilterMonth FilterMode = "month"
)

const (
	TabList  Tab = "list"
	TabChart Tab = "chart"
)

// OtherCategory labels records whose category is missing.
const OtherCategory = "Other"

type (
	// FilterMode selects which records take part in aggregation.
	FilterMode string

	// Tab is the view the user is looking at.
	Tab string

	// Expense is a single stored transaction.
	Expense struct {
		ID       int64           `json:"id"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Note     string          `json:"note,omitempty"`
		Date     string          `json:"date,omitempty"` // canonical YYYY-MM-DD, empty when undated
	}

	// ExpenseInput holds the raw form values exactly as typed.
	ExpenseInput struct {
		Amount   string `json:"amount"`
		Category string `json:"category"`
		Note     string `json:"note"`
		Date     string `json:"date"`
	}

	// ViewState is the UI state a caller carries between requests:
	// the active filter, the active tab and the record being edited (0 = none).
	ViewState struct {
		Filter    FilterMode `json:"filter"`
		Tab       Tab        `json:"tab"`
		EditingID int64      `json:"editing_id,omitempty"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidFilter = errors.New("invalid filter mode")
)

// Validate checks the record invariants.
func (e Expense) Validate() error {
	if !ValidAmount(e.Amount) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Date != "" && !IsCanonicalDate(e.Date) {
		return ErrInvalidDate
	}
	return nil
}

// Dated reports whether the record carries a date.
func (e Expense) Dated() bool {
	return e.Date != ""
}

// FromInput turns raw form values into a record ready to be stored.
// Amount and category are required; an unparseable date leaves the record undated.
func FromInput(in ExpenseInput) (Expense, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Expense{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return Expense{}, ErrEmptyCategory
	}
	date, _ := NormalizeDate(strings.TrimSpace(in.Date))
	return Expense{
		Amount:   amount,
		Category: category,
		Note:     strings.TrimSpace(in.Note),
		Date:     date,
	}, nil
}

// ToInput pre-fills an edit form from a stored record.
func (e Expense) ToInput() ExpenseInput {
	return ExpenseInput{
		Amount:   e.Amount.String(),
		Category: e.Category,
		Note:     e.Note,
		Date:     DateDigits(e.Date),
	}
}

// Editing reports whether an edit is in progress.
func (v ViewState) Editing() bool {
	return v.EditingID != 0
}
