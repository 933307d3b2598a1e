package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
)

// CreateParams holds the fields of a transaction before it gets an id.
// An empty Type is inferred from Category when the record is built.
type CreateParams struct {
	Description   string
	Amount        decimal.Decimal
	Date          calendar.Date
	Category      string
	Type          Type
	PaymentMethod PaymentMethod
}

func (p CreateParams) Validate() error {
	if p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if !p.Date.Valid() {
		return ErrInvalidDate
	}

	if p.Type != "" && !p.Type.Valid() {
		return ErrInvalidType
	}

	if !p.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}

	return nil
}

// Build returns the transaction described by p under the given id.
func (p CreateParams) Build(id string) Transaction {
	txType := p.Type
	if txType == "" {
		txType = InferType(p.Category)
	}

	return Transaction{
		ID:            id,
		Description:   p.Description,
		Amount:        p.Amount,
		Date:          p.Date,
		Category:      p.Category,
		Type:          txType,
		PaymentMethod: p.PaymentMethod,
	}
}

// Patch lists the fields to overwrite on an existing transaction. Nil fields are kept.
type Patch struct {
	Description   *string
	Amount        *decimal.Decimal
	Date          *calendar.Date
	Category      *string
	Type          *Type
	PaymentMethod *PaymentMethod
}

func (p Patch) Validate() error {
	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if p.Date != nil && !p.Date.Valid() {
		return ErrInvalidDate
	}

	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidType
	}

	if p.PaymentMethod != nil && !p.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}

	return nil
}

// Apply merges the patch into tx. The type is never re-derived from a new category.
func (p Patch) Apply(tx Transaction) Transaction {
	if p.Description != nil {
		tx.Description = *p.Description
	}

	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Category != nil {
		tx.Category = *p.Category
	}

	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.PaymentMethod != nil {
		tx.PaymentMethod = *p.PaymentMethod
	}

	return tx
}
