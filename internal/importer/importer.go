// Package importer turns bank exports into transaction params.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Bank selects the export formats to try. BankAuto tries every known format.
type Bank string

const (
	BankAuto   Bank = ""
	BankCGD    Bank = "cgd"
	BankNubank Bank = "nubank"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
