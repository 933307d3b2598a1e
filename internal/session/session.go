// Package session keeps the ledger and assistant of every signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/kv"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/logging"
)

var ErrAssistantUnavailable = errors.New("assistant is not configured")

// Session is the state of one user: their records and their chat.
type Session struct {
	Ledger *ledger.Ledger

	chat *assistant.Session
}

// Assistant returns the user's chat session, or ErrAssistantUnavailable when
// no model client was configured.
func (s *Session) Assistant() (*assistant.Session, error) {
	if s.chat == nil {
		return nil, ErrAssistantUnavailable
	}

	return s.chat, nil
}

type Manager struct {
	store   kv.Store
	client  assistant.Client
	log     *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager over store. A nil client disables the assistant.
func NewManager(store kv.Store, client assistant.Client, log *slog.Logger, timeout time.Duration) *Manager {
	return &Manager{
		store:    store,
		client:   client,
		log:      log,
		timeout:  timeout,
		sessions: make(map[string]*Session),
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Get returns the session of email, loading the ledger on first use.
func (m *Manager) Get(ctx context.Context, email string) (*Session, error) {
	email = normalize(email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[email]; ok {
		return s, nil
	}

	l, err := ledger.Open(ctx, m.store, email, m.log)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Session{Ledger: l}
	if m.client != nil {
		s.chat = assistant.NewSession(m.client, l, m.log, m.timeout)
	}

	m.sessions[email] = s

	logging.Component(m.log, "session").Info("session opened", "user", email)

	return s, nil
}

// Drop forgets the session of email. The next Get reloads it from the store.
func (m *Manager) Drop(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, normalize(email))
}
