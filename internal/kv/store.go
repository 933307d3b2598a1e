package kv

import (
	"context"
	"strings"
)

// Kind names one persisted collection of a user.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindInvestments  Kind = "investments"
	KindTaxes        Kind = "taxes"
	KindChat         Kind = "chat"
	KindRules        Kind = "rules"
	KindUsers        Kind = "users"
	KindSettings     Kind = "settings"
)

// Key addresses a serialized collection. User is empty for global collections
// such as the user directory.
type Key struct {
	User string
	Kind Kind
}

func (k Key) String() string {
	return strings.ToLower(k.User) + "/" + string(k.Kind)
}

// Store persists one serialized value per key. Writes to one key are atomic;
// there are no cross-key guarantees.
//
//go:generate mockgen -source=store.go -destination=store_mock.go -package=kv
type Store interface {
	// Get returns nil and no error when the key has never been written.
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
}
