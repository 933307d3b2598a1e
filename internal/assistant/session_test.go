package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/chat"
	"github.com/MrJamesThe3rd/financia/internal/kv/memory"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/logging"
	"github.com/MrJamesThe3rd/financia/internal/settings"
	"github.com/MrJamesThe3rd/financia/internal/tax"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

var errModel = errors.New("model unavailable")

type fixture struct {
	session *assistant.Session
	ledger  *ledger.Ledger
	client  *assistant.MockClient
	conv    *assistant.MockConversation
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	l, err := ledger.Open(context.Background(), memory.New(), "ana@example.com", logging.Discard())
	require.NoError(t, err)

	client := assistant.NewMockClient(ctrl)
	s := assistant.NewSession(client, l, logging.Discard(), 0)
	s.SetClock(func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) })

	return fixture{session: s, ledger: l, client: client, conv: assistant.NewMockConversation(ctrl)}
}

func texts(msgs []chat.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.Role) + ": " + m.Text
	}

	return out
}

func TestSession_Send_TextReply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client.EXPECT().Start(gomock.Any(), assistant.Brief{Today: "2024-05-20"}).Return(f.conv, nil)
	f.conv.EXPECT().Send(gomock.Any(), "how am I doing?").Return(&assistant.Reply{Text: "**Great**."}, nil)

	got, err := f.session.Send(ctx, "  how am I doing?  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"user: how am I doing?", "model: **Great**."}, texts(got))
	assert.Equal(t, got, f.ledger.Messages())
	assert.Equal(t, time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC).UnixMilli(), got[0].Timestamp)
}

func TestSession_Send_AppliesActionWithInferredType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
	gomock.InOrder(
		f.conv.EXPECT().Send(gomock.Any(), "got my salary, 5000").Return(&assistant.Reply{Calls: []assistant.Call{{
			Name: assistant.ToolSaveTransaction,
			Args: map[string]any{"description": "Salary", "amount": 5000.0, "category": "salary", "paymentMethod": "pix"},
		}}}, nil),
		f.conv.EXPECT().Send(gomock.Any(), "Confirmed the record of R$ 5.000,00.").Return(&assistant.Reply{Text: "Salary saved."}, nil),
	)

	got, err := f.session.Send(ctx, "got my salary, 5000")
	require.NoError(t, err)

	assert.Equal(t, []string{"user: got my salary, 5000", "model: Salary saved."}, texts(got))

	txs := f.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, transaction.TypeIncome, txs[0].Type)
	assert.Equal(t, "2024-05-20", txs[0].Date.String())
	assert.Equal(t, transaction.PaymentPix, txs[0].PaymentMethod)
}

func TestSession_Send_ConfirmationUsesUserCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	eur := settings.EUR
	_, err := f.ledger.UpdateSettings(ctx, settings.Patch{Currency: &eur})
	require.NoError(t, err)

	f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
	gomock.InOrder(
		f.conv.EXPECT().Send(gomock.Any(), "lunch 1234.5").Return(&assistant.Reply{Calls: []assistant.Call{{
			Name: assistant.ToolSaveTransaction,
			Args: map[string]any{"description": "Lunch", "amount": 1234.5, "category": "food", "paymentMethod": "credit"},
		}}}, nil),
		f.conv.EXPECT().Send(gomock.Any(), "Confirmed the record of € 1.234,50.").Return(&assistant.Reply{Text: "Done."}, nil),
	)

	got, err := f.session.Send(ctx, "lunch 1234.5")
	require.NoError(t, err)
	assert.Equal(t, []string{"user: lunch 1234.5", "model: Done."}, texts(got))
}

func TestSession_Send_ConfirmationFallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
	gomock.InOrder(
		f.conv.EXPECT().Send(gomock.Any(), "paid IPTU and bought BTC").Return(&assistant.Reply{Calls: []assistant.Call{
			{Name: assistant.ToolSaveTax, Args: map[string]any{"name": "IPTU", "amount": 300.0, "dueDate": "2024-05-10", "category": "iptu", "status": "paid"}},
			{Name: assistant.ToolSaveInvestment, Args: map[string]any{"name": "Bitcoin", "amount": 200.0, "category": "crypto"}},
		}}, nil),
		f.conv.EXPECT().Send(gomock.Any(), "Tax IPTU recorded for tracking.").Return(nil, errModel),
		f.conv.EXPECT().Send(gomock.Any(), "Investment in Bitcoin saved.").Return(&assistant.Reply{}, nil),
	)

	got, err := f.session.Send(ctx, "paid IPTU and bought BTC")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"user: paid IPTU and bought BTC",
		"model: Tax recorded!",
		"model: Investment recorded!",
	}, texts(got))

	taxes := f.ledger.Taxes()
	require.Len(t, taxes, 1)
	assert.Equal(t, tax.StatusPaid, taxes[0].Status)
	assert.Len(t, f.ledger.Investments(), 1)
}

func TestSession_Send_Failures(t *testing.T) {
	type testCase struct {
		name  string
		setup func(f fixture)
	}

	tests := []testCase{
		{
			name: "StartFails",
			setup: func(f fixture) {
				f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil, errModel)
			},
		},
		{
			name: "SendFails",
			setup: func(f fixture) {
				f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
				f.conv.EXPECT().Send(gomock.Any(), "hi").Return(nil, errModel)
			},
		},
		{
			name: "EmptyReply",
			setup: func(f fixture) {
				f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
				f.conv.EXPECT().Send(gomock.Any(), "hi").Return(&assistant.Reply{Text: "  "}, nil)
			},
		},
		{
			name: "MalformedCallAppliesNothing",
			setup: func(f fixture) {
				f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
				f.conv.EXPECT().Send(gomock.Any(), "hi").Return(&assistant.Reply{Calls: []assistant.Call{
					{Name: assistant.ToolSaveInvestment, Args: map[string]any{"name": "BTC", "amount": 1.0, "category": "crypto"}},
					{Name: assistant.ToolSaveTransaction, Args: map[string]any{"description": "lunch", "amount": "twelve"}},
				}}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			got, err := f.session.Send(context.Background(), "hi")
			require.NoError(t, err)

			assert.Equal(t, []string{"user: hi", "model: " + assistant.Apology}, texts(got))
			assert.Empty(t, f.ledger.Transactions())
			assert.Empty(t, f.ledger.Investments())
		})
	}
}

func TestSession_ConversationIsReusedUntilReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.AddTax(ctx, tax.CreateParams{
		Name: "IPVA", Amount: decimal.NewFromInt(100), DueDate: "2024-06-01", Category: "ipva", Status: tax.StatusPending,
	})
	require.NoError(t, err)

	f.client.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b assistant.Brief) (assistant.Conversation, error) {
		assert.Len(t, b.Taxes, 1)
		return f.conv, nil
	}).Times(2)
	f.conv.EXPECT().Send(gomock.Any(), gomock.Any()).Return(&assistant.Reply{Text: "ok"}, nil).Times(3)

	for _, msg := range []string{"one", "two"} {
		_, err := f.session.Send(ctx, msg)
		require.NoError(t, err)
	}

	f.session.Reset()

	got, err := f.session.Send(ctx, "three")
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestSession_Send_EmptyMessage(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Send(context.Background(), "   ")
	require.ErrorIs(t, err, assistant.ErrEmptyMessage)
	assert.Empty(t, f.ledger.Messages())
}

func TestSession_Send_WaitsForPendingTurn(t *testing.T) {
	f := newFixture(t)

	release := make(chan struct{})
	started := make(chan struct{})

	f.client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(f.conv, nil)
	f.conv.EXPECT().Send(gomock.Any(), "slow").DoAndReturn(func(context.Context, string) (*assistant.Reply, error) {
		close(started)
		<-release

		return &assistant.Reply{Text: "done"}, nil
	})

	done := make(chan error, 1)

	go func() {
		_, err := f.session.Send(context.Background(), "slow")
		done <- err
	}()

	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.session.Send(ctx, "impatient")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"user: slow", "model: done"}, texts(f.ledger.Messages()))
}
