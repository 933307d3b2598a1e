// Package matching learns how raw bank descriptions map to a preferred
// description and category, and applies those rules to new records.
package matching

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

var ErrEmptyPattern = errors.New("pattern is required")

// Rule rewrites records whose description contains Pattern, case-insensitively.
// Empty Description or Category fields leave the record's value untouched.
type Rule struct {
	Pattern     string    `json:"pattern"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Matches reports whether the rule applies to a raw description.
func (r Rule) Matches(raw string) bool {
	return r.Pattern != "" && strings.Contains(strings.ToLower(raw), strings.ToLower(r.Pattern))
}

type Repository interface {
	// FindMatch returns the most specific rule for raw. The second result is false when none applies.
	FindMatch(ctx context.Context, user, raw string) (Rule, bool, error)
	CreateRule(ctx context.Context, user string, rule Rule) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Suggest finds the rule that applies to a raw description.
func (s *Service) Suggest(ctx context.Context, user, raw string) (Rule, bool, error) {
	return s.repo.FindMatch(ctx, user, raw)
}

// Learn remembers a new rule for the user.
func (s *Service) Learn(ctx context.Context, user string, rule Rule) error {
	rule.Pattern = strings.TrimSpace(rule.Pattern)
	if rule.Pattern == "" {
		return ErrEmptyPattern
	}

	rule.Description = strings.TrimSpace(rule.Description)
	rule.Category = strings.TrimSpace(rule.Category)
	rule.CreatedAt = s.now().UTC()

	return s.repo.CreateRule(ctx, user, rule)
}

// Apply rewrites descriptions and categories of params in place using the user's rules.
// It returns how many entries matched a rule.
func (s *Service) Apply(ctx context.Context, user string, params []transaction.CreateParams) (int, error) {
	matched := 0

	for i := range params {
		rule, ok, err := s.repo.FindMatch(ctx, user, params[i].Description)
		if err != nil {
			return matched, err
		}

		if !ok {
			continue
		}

		matched++

		if rule.Description != "" {
			params[i].Description = rule.Description
		}

		if rule.Category != "" {
			params[i].Category = rule.Category
		}
	}

	return matched, nil
}
