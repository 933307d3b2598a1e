package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/settings"
)

func loadSettings(ctx context.Context, l *Ledger) (settings.Settings, error) {
	raw, err := l.store.Get(ctx, l.key(kv.KindSettings))
	if err != nil {
		return settings.Settings{}, fmt.Errorf("reading %s: %w", kv.KindSettings, err)
	}

	if len(raw) == 0 {
		return settings.Default(), nil
	}

	var s settings.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		l.log.Warn("discarding malformed settings", "error", err)
		return settings.Default(), nil
	}

	return s.Normalize(), nil
}

// Settings returns the user's preferences, defaulted when never saved.
func (l *Ledger) Settings() settings.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.settings
}

func (l *Ledger) Currency() settings.Currency {
	return l.Settings().Currency
}

func (l *Ledger) UpdateSettings(ctx context.Context, p settings.Patch) (settings.Settings, error) {
	if err := p.Validate(); err != nil {
		return settings.Settings{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.settings = p.Apply(l.settings)
	l.persist(ctx, kv.KindSettings, l.settings)

	return l.settings, nil
}
