package ledger

import (
	"context"
	"slices"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

func byTxID(id string) func(transaction.Transaction) bool {
	return func(tx transaction.Transaction) bool { return tx.ID == id }
}

func (l *Ledger) Transactions() []transaction.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.transactions)
}

// AddTransaction stores a new transaction in front of the collection.
// A missing type is inferred from the category here and never again.
func (l *Ledger) AddTransaction(ctx context.Context, params transaction.CreateParams) ([]transaction.Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = prepend(l.transactions, params.Build(l.newID()))
	l.persist(ctx, kv.KindTransactions, l.transactions)

	return slices.Clone(l.transactions), nil
}

// ImportTransactions stores a batch in one write and returns the created records.
// Nothing is stored if any entry is invalid.
func (l *Ledger) ImportTransactions(ctx context.Context, params []transaction.CreateParams) ([]transaction.Transaction, error) {
	for _, p := range params {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	if len(params) == 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	created := make([]transaction.Transaction, len(params))
	for i, p := range params {
		created[i] = p.Build(l.newID())
	}

	l.transactions = prepend(l.transactions, created...)
	l.persist(ctx, kv.KindTransactions, l.transactions)

	return created, nil
}

// UpdateTransaction merges patch into the transaction with the given id.
// Unknown ids leave the collection untouched.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, patch transaction.Patch) ([]transaction.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	updated, ok := replace(l.transactions, byTxID(id), patch.Apply)
	if ok {
		l.transactions = updated
		l.persist(ctx, kv.KindTransactions, l.transactions)
	}

	return slices.Clone(l.transactions), nil
}

func (l *Ledger) RemoveTransaction(ctx context.Context, id string) []transaction.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining, ok := without(l.transactions, byTxID(id))
	if ok {
		l.transactions = remaining
		l.persist(ctx, kv.KindTransactions, l.transactions)
	}

	return slices.Clone(l.transactions)
}
