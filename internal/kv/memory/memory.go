package memory

import (
	"context"
	"sync"

	"github.com/MrJamesThe3rd/financia/internal/kv"
)

// Store keeps every collection in process memory.
type Store struct {
	mu   sync.RWMutex
	data map[kv.Key][]byte
}

func New() *Store {
	return &Store{data: make(map[kv.Key][]byte)}
}

func (s *Store) Get(_ context.Context, key kv.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key kv.Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)

	return nil
}
