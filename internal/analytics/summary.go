package analytics

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Summary is the dashboard view of one period.
type Summary struct {
	Range            Range
	Totals           Totals
	ExpenseBreakdown map[string]decimal.Decimal
	IncomeBreakdown  map[string]decimal.Decimal
	ExpenseSlices    []Slice
	Daily            []Point
	Monthly          []Point
	Health           Health
}

// Summarize runs filter, aggregation and health metrics over txs for r.
func Summarize(txs []transaction.Transaction, r Range) Summary {
	filtered := Filter(txs, r)
	totals := Totalize(filtered)
	expenses := CategoryBreakdown(filtered, transaction.TypeExpense)

	return Summary{
		Range:            r,
		Totals:           totals,
		ExpenseBreakdown: expenses,
		IncomeBreakdown:  CategoryBreakdown(filtered, transaction.TypeIncome),
		ExpenseSlices:    Label(category.KindExpense, expenses),
		Daily:            DailySeries(filtered),
		Monthly:          MonthlySeries(filtered),
		Health:           ComputeHealth(filtered, totals, r),
	}
}

// Preset names a predefined period.
type Preset string

const (
	PresetDefault   Preset = "default"
	PresetThisMonth Preset = "month"
	PresetAll       Preset = "all"
)

func (p Preset) String() string {
	switch p {
	case PresetDefault:
		return "Last 6 Months"
	case PresetThisMonth:
		return "This Month"
	case PresetAll:
		return "All Time"
	}

	return "Unknown"
}

// DefaultRange spans from the first day of the month five months back to today.
func DefaultRange(today calendar.Date) Range {
	return Range{Start: calendar.FirstOfMonth(today, -5), End: today}
}

// ThisMonth spans the whole calendar month of today, including the days still ahead.
func ThisMonth(today calendar.Date) Range {
	return Range{
		Start: calendar.FirstOfMonth(today, 0),
		End:   calendar.FirstOfMonth(today, 1).AddDays(-1),
	}
}

// AllTime spans from the earliest transaction to today. With no dated
// transactions it is DefaultRange.
func AllTime(txs []transaction.Transaction, today calendar.Date) Range {
	var start calendar.Date
	for _, tx := range txs {
		if tx.Date.Valid() && (start == "" || tx.Date.Before(start)) {
			start = tx.Date
		}
	}

	if start == "" {
		return DefaultRange(today)
	}

	return Range{Start: min(start, today), End: today}
}

// PresetRange resolves p against txs and today. Unknown presets use DefaultRange.
func PresetRange(p Preset, txs []transaction.Transaction, today calendar.Date) Range {
	switch p {
	case PresetThisMonth:
		return ThisMonth(today)
	case PresetAll:
		return AllTime(txs, today)
	}

	return DefaultRange(today)
}

var ErrInvalidRange = errors.New("start date must not be after end date")

// ResolveRange builds a range from explicit bounds, falling back to the preset
// for any bound left empty.
func ResolveRange(start, end string, p Preset, txs []transaction.Transaction, today calendar.Date) (Range, error) {
	r := PresetRange(p, txs, today)

	if start != "" {
		d, err := calendar.Parse(start)
		if err != nil {
			return Range{}, err
		}

		r.Start = d
	}

	if end != "" {
		d, err := calendar.Parse(end)
		if err != nil {
			return Range{}, err
		}

		r.End = d
	}

	if r.Start.After(r.End) {
		return Range{}, ErrInvalidRange
	}

	return r, nil
}
