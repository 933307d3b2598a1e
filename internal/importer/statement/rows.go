package statement

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// rowAmount extracts the unsigned amount and transaction type from a row.
// Rows with no amount or a zero amount are skipped.
func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, transaction.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		return singleAmount(row, cols[p.AmountCol], p.Numbers, p.ChargesPositive)
	case amountSplit:
		return splitAmount(row, cols[p.DebitCol], cols[p.CreditCol], p.Numbers)
	}

	return decimal.Zero, "", false
}

// singleAmount handles a single signed amount column.
func singleAmount(row []string, idx int, format numberFormat, chargesPositive bool) (decimal.Decimal, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseAmount(s, format)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if chargesPositive {
		d = d.Neg()
	}

	if d.IsNegative() {
		return d.Neg(), transaction.TypeExpense, true
	}

	return d, transaction.TypeIncome, true
}

// splitAmount handles separate debit/credit columns.
func splitAmount(row []string, debitIdx, creditIdx int, format numberFormat) (decimal.Decimal, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseAmount(s, format)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseAmount(s, format)
		if err == nil && !d.IsZero() {
			return d.Abs(), transaction.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
