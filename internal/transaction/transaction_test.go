package transaction_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

func TestInferType(t *testing.T) {
	type testCase struct {
		name     string
		category string
		want     transaction.Type
	}

	tests := []testCase{
		{name: "Salary", category: "salary", want: transaction.TypeIncome},
		{name: "Freelance", category: "freelance", want: transaction.TypeIncome},
		{name: "OtherIncome", category: "other_income", want: transaction.TypeIncome},
		{name: "Food", category: "food", want: transaction.TypeExpense},
		{name: "FreeText", category: "my salary stuff", want: transaction.TypeExpense},
		{name: "Empty", category: "", want: transaction.TypeExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transaction.InferType(tt.category))
		})
	}
}

func TestCreateParams_Validate(t *testing.T) {
	valid := transaction.CreateParams{
		Description:   "Lunch",
		Amount:        decimal.NewFromInt(25),
		Date:          "2024-01-10",
		Category:      "food",
		PaymentMethod: transaction.PaymentPix,
	}

	type testCase struct {
		name    string
		mutate  func(p *transaction.CreateParams)
		wantErr error
	}

	tests := []testCase{
		{name: "Valid", mutate: func(*transaction.CreateParams) {}},
		{name: "ZeroAmount", mutate: func(p *transaction.CreateParams) { p.Amount = decimal.Zero }},
		{
			name:    "NegativeAmount",
			mutate:  func(p *transaction.CreateParams) { p.Amount = decimal.NewFromInt(-1) },
			wantErr: transaction.ErrNegativeAmount,
		},
		{
			name:    "BadDate",
			mutate:  func(p *transaction.CreateParams) { p.Date = "10/01/2024" },
			wantErr: transaction.ErrInvalidDate,
		},
		{
			name:    "BadType",
			mutate:  func(p *transaction.CreateParams) { p.Type = "transfer" },
			wantErr: transaction.ErrInvalidType,
		},
		{
			name:    "MissingPaymentMethod",
			mutate:  func(p *transaction.CreateParams) { p.PaymentMethod = "" },
			wantErr: transaction.ErrInvalidPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCreateParams_Build(t *testing.T) {
	p := transaction.CreateParams{
		Description:   "Paycheck",
		Amount:        decimal.NewFromInt(1000),
		Date:          "2024-01-01",
		Category:      "salary",
		PaymentMethod: transaction.PaymentPix,
	}

	tx := p.Build("abc")
	assert.Equal(t, "abc", tx.ID)
	assert.Equal(t, transaction.TypeIncome, tx.Type)

	p.Type = transaction.TypeExpense
	assert.Equal(t, transaction.TypeExpense, p.Build("abc").Type)
}

func TestPatch_Apply_KeepsType(t *testing.T) {
	tx := transaction.Transaction{
		ID:       "1",
		Amount:   decimal.NewFromInt(10),
		Category: "food",
		Type:     transaction.TypeExpense,
		Date:     "2024-01-01",
	}

	got := transaction.Patch{
		Category: new("salary"),
		Amount:   new(decimal.NewFromInt(20)),
	}.Apply(tx)

	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "salary", got.Category)
	assert.True(t, decimal.NewFromInt(20).Equal(got.Amount))
	assert.Equal(t, transaction.TypeExpense, got.Type)
	assert.Equal(t, calendar.Date("2024-01-01"), got.Date)
}

func TestTransaction_JSON(t *testing.T) {
	raw := `{"id":"x","description":"Uber","amount":12.5,"date":"2024-02-03","category":"transport","type":"expense","paymentMethod":"credit"}`

	var tx transaction.Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))

	assert.True(t, decimal.RequireFromString("12.5").Equal(tx.Amount))
	assert.Equal(t, transaction.PaymentCredit, tx.PaymentMethod)
	assert.Equal(t, calendar.Date("2024-02-03"), tx.Date)
}

func TestFindConflicts(t *testing.T) {
	existing := []transaction.Transaction{
		{
			ID:          "old",
			Description: "COFFEE SHOP",
			Amount:      decimal.RequireFromString("3.50"),
			Date:        "2024-01-15",
			Category:    "food",
			Type:        transaction.TypeExpense,
		},
	}

	dup := transaction.CreateParams{
		Description:   "COFFEE SHOP",
		Amount:        decimal.RequireFromString("3.5"),
		Date:          "2024-01-15",
		Category:      "other_expense",
		PaymentMethod: transaction.PaymentDebit,
	}
	fresh := dup
	fresh.Date = "2024-01-16"

	got, conflicts := transaction.FindConflicts(existing, []transaction.CreateParams{dup, fresh})

	require.Len(t, conflicts, 1)
	assert.Equal(t, "old", conflicts[0].Existing.ID)
	assert.Equal(t, dup, conflicts[0].Incoming)
	assert.Equal(t, []transaction.CreateParams{fresh}, got)
}
