package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

const storeTimeout = 5 * time.Second

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatSigned prefixes income with + and expenses with -.
func FormatSigned(tx transaction.Transaction) string {
	if tx.Type == transaction.TypeIncome {
		return "+" + FormatAmount(tx.Amount)
	}

	return "-" + FormatAmount(tx.Amount)
}

func FormatDate(d calendar.Date) string {
	return d.String()
}

// StoreCtx returns a context with a standard timeout for store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
