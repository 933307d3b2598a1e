package investment

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrMissingName    = errors.New("name is required")
)

// Investment is a single contribution into an asset.
type Investment struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Ticker   string          `json:"ticker,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Date     calendar.Date   `json:"date"`
	Category string          `json:"category"`
}

type CreateParams struct {
	Name     string
	Ticker   string
	Amount   decimal.Decimal
	Date     calendar.Date
	Category string
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrMissingName
	}

	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if !p.Date.Valid() {
		return ErrInvalidDate
	}

	return nil
}

func (p CreateParams) Build(id string) Investment {
	return Investment{
		ID:       id,
		Name:     p.Name,
		Ticker:   p.Ticker,
		Amount:   p.Amount,
		Date:     p.Date,
		Category: p.Category,
	}
}

// Patch lists the fields to overwrite on an existing investment.
type Patch struct {
	Name     *string
	Ticker   *string
	Amount   *decimal.Decimal
	Date     *calendar.Date
	Category *string
}

func (p Patch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return ErrMissingName
	}

	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if p.Date != nil && !p.Date.Valid() {
		return ErrInvalidDate
	}

	return nil
}

func (p Patch) Apply(inv Investment) Investment {
	if p.Name != nil {
		inv.Name = *p.Name
	}

	if p.Ticker != nil {
		inv.Ticker = *p.Ticker
	}

	if p.Amount != nil {
		inv.Amount = *p.Amount
	}

	if p.Date != nil {
		inv.Date = *p.Date
	}

	if p.Category != nil {
		inv.Category = *p.Category
	}

	return inv
}
