package transaction

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentMethod is how an expense or income was settled.
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCash   PaymentMethod = "cash"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentPix, PaymentCredit, PaymentDebit, PaymentCash:
		return true
	}

	return false
}

var (
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrInvalidDate          = errors.New("date must be YYYY-MM-DD")
	ErrInvalidType          = errors.New("type must be income or expense")
	ErrInvalidPaymentMethod = errors.New("payment method must be pix, credit, debit or cash")
)

// Transaction represents a single income or expense entry.
type Transaction struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          calendar.Date   `json:"date"`
	Category      string          `json:"category"`
	Type          Type            `json:"type"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
}

// InferType derives the transaction type from its category id. Income-bearing
// categories yield income; everything else, including ids outside the
// taxonomy, yields expense.
func InferType(categoryID string) Type {
	if category.IsIncome(categoryID) {
		return TypeIncome
	}

	return TypeExpense
}

// CategoryKind returns the category set the transaction is labeled from.
func (t Transaction) CategoryKind() category.Kind {
	if t.Type == TypeIncome {
		return category.KindIncome
	}

	return category.KindExpense
}
