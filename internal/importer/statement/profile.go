package statement

import "github.com/MrJamesThe3rd/financia/internal/transaction"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montante" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// numberFormat is how a bank writes decimal amounts.
type numberFormat int

const (
	// numberComma is "1.234,56".
	numberComma numberFormat = iota
	// numberDot is "1,234.56".
	numberDot
)

// Profile describes the column layout of one bank CSV export format.
type Profile struct {
	Bank       string
	Name       string
	Comma      rune
	DateCol    string
	DateLayout string
	DescCol    string
	Numbers    numberFormat
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
	// ChargesPositive marks card statements where a positive amount is a purchase.
	ChargesPositive bool
	PaymentMethod   transaction.PaymentMethod
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Bank:          "cgd",
		Name:          "cartão",
		Comma:         ';',
		DateCol:       "Data",
		DateLayout:    "02-01-2006",
		DescCol:       "Descrição",
		Numbers:       numberComma,
		AmountMode:    amountSplit,
		DebitCol:      "Débito",
		CreditCol:     "Crédito",
		PaymentMethod: transaction.PaymentCredit,
	},
	{
		Bank:          "cgd",
		Name:          "extrato",
		Comma:         ';',
		DateCol:       "Data mov.",
		DateLayout:    "02-01-2006",
		DescCol:       "Descrição",
		Numbers:       numberComma,
		AmountMode:    amountSingle,
		AmountCol:     "Movimento",
		PaymentMethod: transaction.PaymentDebit,
	},
	{
		Bank:          "cgd",
		Name:          "conta",
		Comma:         ';',
		DateCol:       "Data mov.",
		DateLayout:    "02-01-2006",
		DescCol:       "Descrição",
		Numbers:       numberComma,
		AmountMode:    amountSingle,
		AmountCol:     "Montante",
		PaymentMethod: transaction.PaymentDebit,
	},
	{
		Bank:          "nubank",
		Name:          "conta",
		Comma:         ',',
		DateCol:       "Data",
		DateLayout:    "02/01/2006",
		DescCol:       "Descrição",
		Numbers:       numberDot,
		AmountMode:    amountSingle,
		AmountCol:     "Valor",
		PaymentMethod: transaction.PaymentPix,
	},
	{
		Bank:            "nubank",
		Name:            "fatura",
		Comma:           ',',
		DateCol:         "date",
		DateLayout:      "2006-01-02",
		DescCol:         "title",
		Numbers:         numberDot,
		AmountMode:      amountSingle,
		AmountCol:       "amount",
		ChargesPositive: true,
		PaymentMethod:   transaction.PaymentCredit,
	},
}

// Banks lists the banks that have at least one known format.
func Banks() []string {
	var out []string

	seen := make(map[string]bool)
	for _, p := range profiles {
		if !seen[p.Bank] {
			seen[p.Bank] = true
			out = append(out, p.Bank)
		}
	}

	return out
}
