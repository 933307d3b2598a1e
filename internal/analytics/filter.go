package analytics

import (
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Range is an inclusive date range.
type Range struct {
	Start calendar.Date
	End   calendar.Date
}

// Contains compares the literal ISO strings, which order the same way as the dates.
func (r Range) Contains(d calendar.Date) bool {
	return r.Start <= d && d <= r.End
}

// Days returns the whole days between Start and End, never less than 1.
func (r Range) Days() int {
	return max(1, calendar.DaysBetween(r.Start, r.End))
}

// Filter keeps the transactions dated within r, preserving order.
func Filter(txs []transaction.Transaction, r Range) []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out
}
