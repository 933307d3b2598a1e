package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/financia/internal/tax"
)

func TestStatus_Toggled(t *testing.T) {
	assert.Equal(t, tax.StatusPending, tax.StatusPaid.Toggled())
	assert.Equal(t, tax.StatusPaid, tax.StatusPending.Toggled())
	assert.Equal(t, tax.StatusPaid, tax.StatusPending.Toggled().Toggled().Toggled())
}

func TestCreateParams_Validate(t *testing.T) {
	type testCase struct {
		name    string
		params  tax.CreateParams
		wantErr error
	}

	base := tax.CreateParams{
		Name:     "IPTU",
		Amount:   decimal.NewFromInt(300),
		DueDate:  "2024-03-10",
		Category: "iptu",
		Status:   tax.StatusPending,
	}

	withStatus := base
	withStatus.Status = "late"

	withDate := base
	withDate.DueDate = ""

	negative := base
	negative.Amount = decimal.NewFromInt(-300)

	tests := []testCase{
		{name: "Valid", params: base},
		{name: "BadStatus", params: withStatus, wantErr: tax.ErrInvalidStatus},
		{name: "MissingDueDate", params: withDate, wantErr: tax.ErrInvalidDueDate},
		{name: "Negative", params: negative, wantErr: tax.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
