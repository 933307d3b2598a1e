package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/matching"
)

// Store keeps each user's rules as one collection in a kv.Store.
type Store struct {
	mu sync.Mutex
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

func key(user string) kv.Key {
	return kv.Key{User: user, Kind: kv.KindRules}
}

func (s *Store) rules(ctx context.Context, user string) ([]matching.Rule, error) {
	raw, err := s.kv.Get(ctx, key(user))
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var rules []matching.Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}

	return rules, nil
}

// FindMatch prefers the longest pattern, then the most recently created rule.
func (s *Store) FindMatch(ctx context.Context, user, raw string) (matching.Rule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.rules(ctx, user)
	if err != nil {
		return matching.Rule{}, false, fmt.Errorf("finding match: %w", err)
	}

	var (
		best  matching.Rule
		found bool
	)

	for _, r := range rules {
		if !r.Matches(raw) {
			continue
		}

		if !found || len(r.Pattern) > len(best.Pattern) ||
			(len(r.Pattern) == len(best.Pattern) && r.CreatedAt.After(best.CreatedAt)) {
			best, found = r, true
		}
	}

	return best, found, nil
}

func (s *Store) CreateRule(ctx context.Context, user string, rule matching.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.rules(ctx, user)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	raw, err := json.Marshal(append(rules, rule))
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	if err := s.kv.Set(ctx, key(user), raw); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
