package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a bank-formatted amount such as "1.234,56", "-588,74",
// "R$ 1,234.56" or "10.00 EUR".
func parseAmount(s string, format numberFormat) (decimal.Decimal, error) {
	clean := strings.NewReplacer("R$", "", "EUR", "", "€", "", " ", "", "\u00a0", "").Replace(s)

	switch format {
	case numberComma:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case numberDot:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
