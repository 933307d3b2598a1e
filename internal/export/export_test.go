package export_test

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/export"
	"github.com/MrJamesThe3rd/financia/internal/settings"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

var (
	period = analytics.Range{Start: "2024-03-01", End: "2024-03-31"}

	txs = []transaction.Transaction{
		{ID: "t1", Description: "Salary", Amount: decimal.NewFromInt(3000), Date: "2024-03-05", Category: "salary", Type: transaction.TypeIncome, PaymentMethod: transaction.PaymentPix},
		{ID: "t2", Description: "Market, weekly", Amount: decimal.RequireFromString("120.5"), Date: "2024-03-07", Category: "food", Type: transaction.TypeExpense, PaymentMethod: transaction.PaymentCredit},
		{ID: "t3", Description: "Old rent", Amount: decimal.NewFromInt(900), Date: "2024-02-01", Category: "rent", Type: transaction.TypeExpense, PaymentMethod: transaction.PaymentPix},
	}
)

func TestParseFormat(t *testing.T) {
	type testCase struct {
		in      string
		want    export.Format
		wantErr bool
	}

	tests := []testCase{
		{in: "", want: export.FormatCSV},
		{in: "CSV", want: export.FormatCSV},
		{in: "text", want: export.FormatText},
		{in: "zip", want: export.FormatZip},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := export.ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, export.ErrUnknownFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatCSV, txs, period, settings.BRL))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "date", "description", "category", "type", "paymentMethod", "amount"}, rows[0])
	assert.Equal(t, []string{"t1", "2024-03-05", "Salary", "salary", "income", "pix", "3000.00"}, rows[1])
	assert.Equal(t, "Market, weekly", rows[2][2])
	assert.Equal(t, "120.50", rows[2][6])
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatText, txs, period, settings.BRL))

	got := buf.String()
	assert.Contains(t, got, "Period 2024-03-01 to 2024-03-31")
	assert.Contains(t, got, "* 2024-03-05 | Salary | +R$ 3.000,00 | 💰 Salário")
	assert.Contains(t, got, "* 2024-03-07 | Market, weekly | -R$ 120,50 | 🍔 Alimentação")
	assert.NotContains(t, got, "Old rent")
	assert.Contains(t, got, "Balance: R$ 2.879,50")
}

func TestWrite_Zip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatZip, txs, period, settings.BRL))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"financia_2024-03-01_2024-03-31.csv", "financia_2024-03-01_2024-03-31.txt"}, names)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()

	report, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Income:  R$ 3.000,00")
}

func TestReport_Currency(t *testing.T) {
	type testCase struct {
		name     string
		currency settings.Currency
		want     []string
	}

	overspent := []transaction.Transaction{
		{ID: "t1", Description: "Rent", Amount: decimal.NewFromInt(1500), Date: "2024-03-02", Category: "rent", Type: transaction.TypeExpense},
		{ID: "t2", Description: "Freelance", Amount: decimal.NewFromInt(400), Date: "2024-03-09", Category: "freelance", Type: transaction.TypeIncome},
	}

	tests := []testCase{
		{name: "Dollar", currency: settings.USD, want: []string{"| -US$ 1.500,00 |", "Income:  US$ 400,00", "Balance: -US$ 1.100,00"}},
		{name: "Pound", currency: settings.GBP, want: []string{"| +£ 400,00 |", "Expense: £ 1.500,00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := export.Report(overspent, period, tt.currency)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := export.Write(io.Discard, "pdf", txs, period, settings.BRL)
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}
