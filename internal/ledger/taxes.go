package ledger

import (
	"context"
	"slices"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/tax"
)

func byTaxID(id string) func(tax.Tax) bool {
	return func(t tax.Tax) bool { return t.ID == id }
}

func (l *Ledger) Taxes() []tax.Tax {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.taxes)
}

func (l *Ledger) AddTax(ctx context.Context, params tax.CreateParams) ([]tax.Tax, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.taxes = prepend(l.taxes, params.Build(l.newID()))
	l.persist(ctx, kv.KindTaxes, l.taxes)

	return slices.Clone(l.taxes), nil
}

func (l *Ledger) UpdateTax(ctx context.Context, id string, patch tax.Patch) ([]tax.Tax, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	updated, ok := replace(l.taxes, byTaxID(id), patch.Apply)
	if ok {
		l.taxes = updated
		l.persist(ctx, kv.KindTaxes, l.taxes)
	}

	return slices.Clone(l.taxes), nil
}

func (l *Ledger) RemoveTax(ctx context.Context, id string) []tax.Tax {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining, ok := without(l.taxes, byTaxID(id))
	if ok {
		l.taxes = remaining
		l.persist(ctx, kv.KindTaxes, l.taxes)
	}

	return slices.Clone(l.taxes)
}

// ToggleTaxStatus flips the matching tax between paid and pending.
func (l *Ledger) ToggleTaxStatus(ctx context.Context, id string) []tax.Tax {
	l.mu.Lock()
	defer l.mu.Unlock()

	updated, ok := replace(l.taxes, byTaxID(id), func(t tax.Tax) tax.Tax {
		t.Status = t.Status.Toggled()
		return t
	})
	if ok {
		l.taxes = updated
		l.persist(ctx, kv.KindTaxes, l.taxes)
	}

	return slices.Clone(l.taxes)
}
