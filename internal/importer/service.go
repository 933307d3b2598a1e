package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/financia/internal/importer/statement"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

var ErrUnknownBank = errors.New("unknown bank")

type Service struct {
	importers map[Bank]Importer
}

func NewService() *Service {
	importers := map[Bank]Importer{BankAuto: statement.NewParser()}
	for _, b := range statement.Banks() {
		importers[Bank(b)] = statement.NewParser(b)
	}

	return &Service{importers: importers}
}

func (s *Service) Import(bank Bank, r io.Reader) ([]transaction.CreateParams, error) {
	importer, ok := s.importers[Bank(strings.ToLower(strings.TrimSpace(string(bank))))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	return params, nil
}

// Banks lists the accepted bank identifiers, auto-detection first.
func (s *Service) Banks() []Bank {
	banks := []Bank{BankAuto}
	for _, b := range statement.Banks() {
		banks = append(banks, Bank(b))
	}

	return banks
}
