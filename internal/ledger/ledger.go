package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/financia/internal/chat"
	"github.com/MrJamesThe3rd/financia/internal/investment"
	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/logging"
	"github.com/MrJamesThe3rd/financia/internal/settings"
	"github.com/MrJamesThe3rd/financia/internal/tax"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

// Ledger holds the record collections of one user. Collections are kept
// newest first and written back to the store after every change.
//
// Every method returning a collection hands out a copy.
type Ledger struct {
	mu    sync.Mutex
	store kv.Store
	user  string
	log   *slog.Logger
	newID func() string

	transactions []transaction.Transaction
	investments  []investment.Investment
	taxes        []tax.Tax
	messages     []chat.Message
	settings     settings.Settings
}

// Open loads the user's collections. Unreadable stored data degrades to an
// empty collection; only store failures are returned.
func Open(ctx context.Context, store kv.Store, user string, log *slog.Logger) (*Ledger, error) {
	l := &Ledger{
		store: store,
		user:  user,
		log:   logging.Component(log, "ledger").With("user", user),
		newID: uuid.NewString,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		l.transactions, err = load[transaction.Transaction](gctx, l, kv.KindTransactions)
		return err
	})
	g.Go(func() (err error) {
		l.investments, err = load[investment.Investment](gctx, l, kv.KindInvestments)
		return err
	})
	g.Go(func() (err error) {
		l.taxes, err = load[tax.Tax](gctx, l, kv.KindTaxes)
		return err
	})
	g.Go(func() (err error) {
		l.messages, err = load[chat.Message](gctx, l, kv.KindChat)
		return err
	})
	g.Go(func() (err error) {
		l.settings, err = loadSettings(gctx, l)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	return l, nil
}

func (l *Ledger) User() string { return l.user }

func (l *Ledger) key(kind kv.Kind) kv.Key {
	return kv.Key{User: l.user, Kind: kind}
}

func load[T any](ctx context.Context, l *Ledger, kind kv.Kind) ([]T, error) {
	raw, err := l.store.Get(ctx, l.key(kind))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", kind, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		l.log.Warn("discarding malformed collection", "kind", kind, "error", err)
		return nil, nil
	}

	return items, nil
}

// persist writes one collection. Failures are logged and the in-memory state is kept.
// The write is detached from ctx so a cancelled request does not drop it.
func (l *Ledger) persist(ctx context.Context, kind kv.Kind, items any) {
	raw, err := json.Marshal(items)
	if err != nil {
		l.log.Error("failed to encode collection", "kind", kind, "error", err)
		return
	}

	if err := l.store.Set(context.WithoutCancel(ctx), l.key(kind), raw); err != nil {
		l.log.Error("failed to persist collection", "kind", kind, "error", err)
	}
}

// Clear empties transactions, investments and taxes. Chat history is kept.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transactions = nil
	l.investments = nil
	l.taxes = nil

	l.persist(ctx, kv.KindTransactions, []transaction.Transaction{})
	l.persist(ctx, kv.KindInvestments, []investment.Investment{})
	l.persist(ctx, kv.KindTaxes, []tax.Tax{})
}

func (l *Ledger) Messages() []chat.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.messages)
}

// AppendMessages adds messages to the end of the chat history.
func (l *Ledger) AppendMessages(ctx context.Context, msgs ...chat.Message) []chat.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(slices.Clone(l.messages), msgs...)
	l.persist(ctx, kv.KindChat, l.messages)

	return slices.Clone(l.messages)
}

func prepend[T any](items []T, head ...T) []T {
	out := make([]T, 0, len(items)+len(head))
	out = append(out, head...)

	return append(out, items...)
}

// replace returns a copy of items with the first matching element transformed by fn.
// The second result is false when no element matched.
func replace[T any](items []T, match func(T) bool, fn func(T) T) ([]T, bool) {
	idx := slices.IndexFunc(items, match)
	if idx < 0 {
		return items, false
	}

	out := slices.Clone(items)
	out[idx] = fn(out[idx])

	return out, true
}

func without[T any](items []T, match func(T) bool) ([]T, bool) {
	if !slices.ContainsFunc(items, match) {
		return items, false
	}

	return slices.DeleteFunc(slices.Clone(items), match), true
}
