package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/chat"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/logging"
)

// Apology is recorded as the model reply whenever a turn fails.
const Apology = "I had a problem processing your request."

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrEmptyReply   = errors.New("model returned an empty reply")
)

// Session drives one user's chat: it records messages in the ledger, talks to
// the model and applies the record actions the model requests.
//
// Turns are serialized; a new turn waits for the pending one to finish.
type Session struct {
	client  Client
	ledger  *ledger.Ledger
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time

	turn chan struct{}

	mu   sync.Mutex
	conv Conversation
}

// NewSession returns a session over l. A zero timeout leaves turns bounded only by the caller's context.
func NewSession(client Client, l *ledger.Ledger, log *slog.Logger, timeout time.Duration) *Session {
	return &Session{
		client:  client,
		ledger:  l,
		log:     logging.Component(log, "assistant").With("user", l.User()),
		timeout: timeout,
		now:     time.Now,
		turn:    make(chan struct{}, 1),
	}
}

// Send runs one chat turn and returns the updated history. Model and action
// failures are absorbed into an apology message; only an empty message or a
// cancelled wait for the previous turn is returned as an error.
func (s *Session) Send(ctx context.Context, text string) ([]chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	select {
	case s.turn <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.turn }()

	s.ledger.AppendMessages(ctx, chat.NewMessage(chat.RoleUser, text, s.now()))

	turnCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	replies, err := s.exchange(turnCtx, text)
	if err != nil {
		s.log.Error("chat turn failed", "error", err)
		replies = append(replies, Apology)
	}

	msgs := make([]chat.Message, 0, len(replies))
	for _, r := range replies {
		msgs = append(msgs, chat.NewMessage(chat.RoleModel, r, s.now()))
	}

	return s.ledger.AppendMessages(ctx, msgs...), nil
}

// Reset drops the model-side conversation. The next turn starts a new one
// briefed with the current records.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conv = nil
}

// exchange returns the model texts to record, in order. Texts produced before
// a failure are returned along with the error.
func (s *Session) exchange(ctx context.Context, text string) ([]string, error) {
	conv, err := s.conversation(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := conv.Send(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(reply.Calls) == 0 {
		if strings.TrimSpace(reply.Text) == "" {
			return nil, ErrEmptyReply
		}

		return []string{reply.Text}, nil
	}

	actions, err := Decode(reply.Calls, calendar.FromTime(s.now()))
	if err != nil {
		for _, c := range reply.Calls {
			s.log.Warn("rejected model call", "call", c.describe())
		}

		return nil, err
	}

	var out []string

	for _, a := range actions {
		if err := s.apply(ctx, a); err != nil {
			return out, err
		}

		out = append(out, s.confirm(ctx, conv, a))
	}

	return out, nil
}

func (s *Session) conversation(ctx context.Context) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conv != nil {
		return s.conv, nil
	}

	conv, err := s.client.Start(ctx, Brief{
		Today:        calendar.FromTime(s.now()),
		Transactions: s.ledger.Transactions(),
		Taxes:        s.ledger.Taxes(),
	})
	if err != nil {
		return nil, err
	}

	s.conv = conv

	return conv, nil
}

func (s *Session) apply(ctx context.Context, a Action) error {
	var err error

	switch a := a.(type) {
	case RecordTransaction:
		_, err = s.ledger.AddTransaction(ctx, a.Params)
	case RecordInvestment:
		_, err = s.ledger.AddInvestment(ctx, a.Params)
	case RecordTax:
		_, err = s.ledger.AddTax(ctx, a.Params)
	}

	if err != nil {
		return err
	}

	s.log.Info("applied model action", "action", a.Confirmation(s.ledger.Currency()))

	return nil
}

// confirm tells the model the action was applied and returns its answer, or
// the action's fallback text when the model fails or stays silent.
func (s *Session) confirm(ctx context.Context, conv Conversation, a Action) string {
	reply, err := conv.Send(ctx, a.Confirmation(s.ledger.Currency()))
	if err != nil {
		s.log.Warn("confirmation not answered", "error", err)
		return a.Fallback()
	}

	if strings.TrimSpace(reply.Text) == "" {
		return a.Fallback()
	}

	return reply.Text
}
