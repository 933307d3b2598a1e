package tax

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
)

// Status is the payment state of a tax obligation.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
)

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

// Toggled returns the opposite status. Anything that is not paid becomes paid.
func (s Status) Toggled() Status {
	if s == StatusPaid {
		return StatusPending
	}

	return StatusPaid
}

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrInvalidDueDate = errors.New("due date must be YYYY-MM-DD")
	ErrInvalidStatus  = errors.New("status must be paid or pending")
	ErrMissingName    = errors.New("name is required")
)

// Tax is a tax or fee obligation tracked until it is paid.
type Tax struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  calendar.Date   `json:"dueDate"`
	Category string          `json:"category"`
	Status   Status          `json:"status"`
}

type CreateParams struct {
	Name     string
	Amount   decimal.Decimal
	DueDate  calendar.Date
	Category string
	Status   Status
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrMissingName
	}

	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if !p.DueDate.Valid() {
		return ErrInvalidDueDate
	}

	if !p.Status.Valid() {
		return ErrInvalidStatus
	}

	return nil
}

func (p CreateParams) Build(id string) Tax {
	return Tax{
		ID:       id,
		Name:     p.Name,
		Amount:   p.Amount,
		DueDate:  p.DueDate,
		Category: p.Category,
		Status:   p.Status,
	}
}

// Patch lists the fields to overwrite on an existing tax.
type Patch struct {
	Name     *string
	Amount   *decimal.Decimal
	DueDate  *calendar.Date
	Category *string
	Status   *Status
}

func (p Patch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrMissingName
	}

	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if p.DueDate != nil && !p.DueDate.Valid() {
		return ErrInvalidDueDate
	}

	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}

	return nil
}

func (p Patch) Apply(t Tax) Tax {
	if p.Name != nil {
		t.Name = *p.Name
	}

	if p.Amount != nil {
		t.Amount = *p.Amount
	}

	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}

	if p.Category != nil {
		t.Category = *p.Category
	}

	if p.Status != nil {
		t.Status = *p.Status
	}

	return t
}
