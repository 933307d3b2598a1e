package ledger

import (
	"context"
	"slices"

	"github.com/MrJamesThe3rd/financia/internal/investment"
	"github.com/MrJamesThe3rd/financia/internal/kv"
)

func byInvestmentID(id string) func(investment.Investment) bool {
	return func(inv investment.Investment) bool { return inv.ID == id }
}

func (l *Ledger) Investments() []investment.Investment {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.investments)
}

func (l *Ledger) AddInvestment(ctx context.Context, params investment.CreateParams) ([]investment.Investment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.investments = prepend(l.investments, params.Build(l.newID()))
	l.persist(ctx, kv.KindInvestments, l.investments)

	return slices.Clone(l.investments), nil
}

func (l *Ledger) UpdateInvestment(ctx context.Context, id string, patch investment.Patch) ([]investment.Investment, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	updated, ok := replace(l.investments, byInvestmentID(id), patch.Apply)
	if ok {
		l.investments = updated
		l.persist(ctx, kv.KindInvestments, l.investments)
	}

	return slices.Clone(l.investments), nil
}

func (l *Ledger) RemoveInvestment(ctx context.Context, id string) []investment.Investment {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining, ok := without(l.investments, byInvestmentID(id))
	if ok {
		l.investments = remaining
		l.persist(ctx, kv.KindInvestments, l.investments)
	}

	return slices.Clone(l.investments)
}
