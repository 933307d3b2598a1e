package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/investment"
	"github.com/MrJamesThe3rd/financia/internal/tax"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Totals are the income and expense sums of a transaction set.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

func Totalize(txs []transaction.Transaction) Totals {
	var t Totals

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}

	t.Balance = t.Income.Sub(t.Expense)

	return t
}

// CategoryBreakdown sums amounts per category id for one transaction type.
// Categories without transactions of that type are absent.
func CategoryBreakdown(txs []transaction.Transaction, typ transaction.Type) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}

		out[tx.Category] = out[tx.Category].Add(tx.Amount)
	}

	return out
}

// Slice is one labeled share of a breakdown.
type Slice struct {
	Category category.Category
	Amount   decimal.Decimal
}

// Label resolves breakdown ids against the taxonomy of kind. Ids that resolve
// to the same fallback entry are merged. Slices are sorted by amount, largest first.
func Label(kind category.Kind, breakdown map[string]decimal.Decimal) []Slice {
	merged := make(map[string]*Slice, len(breakdown))

	for id, amount := range breakdown {
		c := category.Resolve(kind, id)

		s, ok := merged[c.ID]
		if !ok {
			s = &Slice{Category: c}
			merged[c.ID] = s
		}

		s.Amount = s.Amount.Add(amount)
	}

	out := make([]Slice, 0, len(merged))
	for _, s := range merged {
		out = append(out, *s)
	}

	slices.SortFunc(out, func(a, b Slice) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category.ID, b.Category.ID)
	})

	return out
}

// Point is the income and expense sum of one time bucket.
type Point struct {
	Key     string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// DailySeries buckets by date. Only dates present in txs appear, in ascending order.
func DailySeries(txs []transaction.Transaction) []Point {
	return series(txs, func(d calendar.Date) string { return d.String() })
}

// MonthlySeries buckets by YYYY-MM, in ascending order.
func MonthlySeries(txs []transaction.Transaction) []Point {
	return series(txs, calendar.Date.Month)
}

func series(txs []transaction.Transaction, bucket func(calendar.Date) string) []Point {
	points := make(map[string]*Point)

	for _, tx := range txs {
		key := bucket(tx.Date)

		p, ok := points[key]
		if !ok {
			p = &Point{Key: key}
			points[key] = p
		}

		switch tx.Type {
		case transaction.TypeIncome:
			p.Income = p.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}

	slices.SortFunc(out, func(a, b Point) int { return cmp.Compare(a.Key, b.Key) })

	return out
}

// Allocation is how invested money is spread over investment categories.
type Allocation struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
	Slices     []Slice
}

// InvestmentAllocation sums the whole investment collection per category.
func InvestmentAllocation(invs []investment.Investment) Allocation {
	a := Allocation{ByCategory: make(map[string]decimal.Decimal)}

	for _, inv := range invs {
		a.Total = a.Total.Add(inv.Amount)
		a.ByCategory[inv.Category] = a.ByCategory[inv.Category].Add(inv.Amount)
	}

	a.Slices = Label(category.KindInvestment, a.ByCategory)

	return a
}

// TaxOverview summarizes the whole tax collection.
type TaxOverview struct {
	Paid     decimal.Decimal
	Pending  decimal.Decimal
	ByStatus map[tax.Status]decimal.Decimal
	// NextDue is the pending tax with the earliest due date, nil when nothing is pending.
	NextDue *tax.Tax
	// Overdue counts pending taxes due before today.
	Overdue int
}

func TaxSummary(taxes []tax.Tax, today calendar.Date) TaxOverview {
	o := TaxOverview{ByStatus: make(map[tax.Status]decimal.Decimal)}

	for _, t := range taxes {
		o.ByStatus[t.Status] = o.ByStatus[t.Status].Add(t.Amount)

		if t.Status != tax.StatusPending {
			continue
		}

		if t.DueDate.Before(today) {
			o.Overdue++
		}

		if o.NextDue == nil || t.DueDate.Before(o.NextDue.DueDate) {
			o.NextDue = &t
		}
	}

	o.Paid = o.ByStatus[tax.StatusPaid]
	o.Pending = o.ByStatus[tax.StatusPending]

	return o
}
