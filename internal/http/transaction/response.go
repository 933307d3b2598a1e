package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type transactionResponse struct {
	ID            string                    `json:"id"`
	Description   string                    `json:"description"`
	Amount        decimal.Decimal           `json:"amount"`
	Date          calendar.Date             `json:"date"`
	Type          transaction.Type          `json:"type"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method"`
	Category      categoryResponse          `json:"category"`
}

func toResponse(tx transaction.Transaction) transactionResponse {
	c := category.Resolve(tx.CategoryKind(), tx.Category)

	return transactionResponse{
		ID:            tx.ID,
		Description:   tx.Description,
		Amount:        tx.Amount,
		Date:          tx.Date,
		Type:          tx.Type,
		PaymentMethod: tx.PaymentMethod,
		Category: categoryResponse{
			ID:    tx.Category,
			Name:  c.Name,
			Color: c.Color,
			Icon:  c.Icon,
		},
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
