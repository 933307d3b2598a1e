package cache

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/MrJamesThe3rd/financia/internal/kv"
)

// Store is a read-through, write-through cache in front of another store.
type Store struct {
	next  kv.Store
	cache *ristretto.Cache[string, []byte]
}

// New wraps next with a cache bounded to maxCost bytes of payload.
func New(next kv.Store, maxCost int64) (*Store, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10_000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &Store{next: next, cache: c}, nil
}

func (s *Store) Get(ctx context.Context, key kv.Key) ([]byte, error) {
	if v, ok := s.cache.Get(key.String()); ok {
		return append([]byte(nil), v...), nil
	}

	v, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if v != nil {
		s.put(key, v)
	}

	return v, nil
}

func (s *Store) Set(ctx context.Context, key kv.Key, value []byte) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		s.cache.Del(key.String())
		return err
	}

	s.put(key, value)

	return nil
}

func (s *Store) put(key kv.Key, value []byte) {
	v := append([]byte(nil), value...)
	s.cache.Set(key.String(), v, int64(len(v))+1)
	s.cache.Wait()
}

func (s *Store) Close() {
	s.cache.Close()
}
