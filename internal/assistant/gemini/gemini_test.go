package gemini

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/tax"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}},
	}
}

func TestToReply(t *testing.T) {
	type testCase struct {
		name string
		resp *genai.GenerateContentResponse
		want *assistant.Reply
	}

	tests := []testCase{
		{
			name: "Text",
			resp: response(&genai.Part{Text: " Hello "}),
			want: &assistant.Reply{Text: "Hello"},
		},
		{
			name: "FunctionCalls",
			resp: response(
				&genai.Part{FunctionCall: &genai.FunctionCall{Name: "save_tax", Args: map[string]any{"name": "IPTU"}}},
				&genai.Part{FunctionCall: &genai.FunctionCall{Name: "save_investment", Args: map[string]any{"name": "BTC"}}},
			),
			want: &assistant.Reply{Calls: []assistant.Call{
				{Name: "save_tax", Args: map[string]any{"name": "IPTU"}},
				{Name: "save_investment", Args: map[string]any{"name": "BTC"}},
			}},
		},
		{
			name: "NoCandidates",
			resp: &genai.GenerateContentResponse{},
			want: &assistant.Reply{},
		},
		{
			name: "Nil",
			want: &assistant.Reply{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toReply(tt.resp))
		})
	}
}

func TestSystemInstruction(t *testing.T) {
	got := systemInstruction(assistant.Brief{
		Today: "2024-05-20",
		Transactions: []transaction.Transaction{
			{Amount: decimal.NewFromInt(40), Category: "food", Type: transaction.TypeExpense},
			{Amount: decimal.NewFromInt(2), Category: "food", Type: transaction.TypeExpense},
		},
		Taxes: []tax.Tax{{Amount: decimal.NewFromInt(300), Status: tax.StatusPending}},
	})

	assert.Contains(t, got, "Today is 2024-05-20.")
	assert.Contains(t, got, "Expense: food = 42.00")
	assert.Contains(t, got, "pending = 300.00")

	empty := systemInstruction(assistant.Brief{Today: "2024-05-20"})
	assert.Contains(t, empty, "Transactions: none")
}

func TestDeclarations(t *testing.T) {
	decls := declarations()
	require.Len(t, decls, 3)

	byName := make(map[string]*genai.FunctionDeclaration)
	for _, d := range decls {
		byName[d.Name] = d
	}

	for name, required := range map[string][]string{
		assistant.ToolSaveTransaction: {"description", "amount", "category", "type", "paymentMethod"},
		assistant.ToolSaveInvestment:  {"name", "amount", "category"},
		assistant.ToolSaveTax:         {"name", "amount", "dueDate", "category", "status"},
	} {
		d, ok := byName[name]
		require.True(t, ok, name)
		assert.Equal(t, required, d.Parameters.Required, name)

		for _, field := range required {
			assert.Contains(t, d.Parameters.Properties, field, name)
		}
	}

	assert.Contains(t, byName[assistant.ToolSaveInvestment].Parameters.Properties["category"].Description, "other_invest")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
