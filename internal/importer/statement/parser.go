// Package statement parses bank CSV exports into transaction params.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/encoding"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

var ErrNoProfile = errors.New("no matching statement format found")

// Parser auto-detects which known export format an input uses by matching
// column headers against the profiles of the selected banks.
type Parser struct {
	profiles []Profile
}

// NewParser restricts detection to the given banks. No banks means every known format.
func NewParser(banks ...string) *Parser {
	if len(banks) == 0 {
		return &Parser{profiles: profiles}
	}

	var selected []Profile
	for _, p := range profiles {
		if slices.Contains(banks, p.Bank) {
			selected = append(selected, p)
		}
	}

	return &Parser{profiles: selected}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, _, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, comma := range p.delimiters() {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := p.detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrNoProfile
}

func (p *Parser) delimiters() []rune {
	var out []rune
	for _, prof := range p.profiles {
		if !slices.Contains(out, prof.Comma) {
			out = append(out, prof.Comma)
		}
	}

	return out
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func (p *Parser) detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if p.profiles[i].Comma == comma && matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	txs := []transaction.CreateParams{}

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		fallback := category.OtherExpense
		if txType == transaction.TypeIncome {
			fallback = category.OtherIncome
		}

		txs = append(txs, transaction.CreateParams{
			Description:   desc,
			Amount:        amount,
			Date:          date,
			Category:      fallback,
			Type:          txType,
			PaymentMethod: p.PaymentMethod,
		})
	}

	return txs, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layout string) (calendar.Date, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return "", false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}

	return calendar.FromTime(t), true
}
