package assistant

import (
	"context"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/tax"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

//go:generate mockgen -source=assistant.go -destination=assistant_mock.go -package=assistant

// Client opens conversations with a language model that can request record actions.
type Client interface {
	Start(ctx context.Context, brief Brief) (Conversation, error)
}

// Conversation keeps the model-side history of one chat.
type Conversation interface {
	Send(ctx context.Context, text string) (*Reply, error)
}

// Call is a structured action requested by the model, before validation.
type Call struct {
	Name string
	Args map[string]any
}

// Reply is one model turn. When Calls is non-empty Text is usually empty.
type Reply struct {
	Text  string
	Calls []Call
}

// Brief is the context a conversation starts with.
type Brief struct {
	Today        calendar.Date
	Transactions []transaction.Transaction
	Taxes        []tax.Tax
}

// Group is a labeled sum used to describe the user's records to the model.
type Group struct {
	Label  string
	Amount decimal.Decimal
}

// TransactionGroups sums transactions per type and category, sorted by label.
func (b Brief) TransactionGroups() []Group {
	sums := make(map[string]decimal.Decimal)

	for _, tx := range b.Transactions {
		label := "Expense: " + tx.Category
		if tx.Type == transaction.TypeIncome {
			label = "Income: " + tx.Category
		}

		sums[label] = sums[label].Add(tx.Amount)
	}

	return groups(sums)
}

// TaxGroups sums taxes per status, sorted by label.
func (b Brief) TaxGroups() []Group {
	sums := make(map[string]decimal.Decimal)

	for _, t := range b.Taxes {
		sums[string(t.Status)] = sums[string(t.Status)].Add(t.Amount)
	}

	return groups(sums)
}

func groups(sums map[string]decimal.Decimal) []Group {
	out := make([]Group, 0, len(sums))
	for _, label := range slices.Sorted(maps.Keys(sums)) {
		out = append(out, Group{Label: label, Amount: sums[label]})
	}

	return out
}
