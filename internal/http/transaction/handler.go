package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/session"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

type Handler struct {
	today func() calendar.Date
}

func NewHandler() *Handler {
	return &Handler{today: calendar.Today}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Description   string                    `json:"description"`
	Amount        decimal.Decimal           `json:"amount"`
	Date          calendar.Date             `json:"date"`
	Category      string                    `json:"category"`
	Type          transaction.Type          `json:"type"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Date == "" {
		req.Date = h.today()
	}

	l := session.FromContext(r.Context()).Ledger

	txs, err := l.AddTransaction(r.Context(), transaction.CreateParams{
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          req.Date,
		Category:      req.Category,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(txs[0])); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	txs := session.FromContext(r.Context()).Ledger.Transactions()

	q := r.URL.Query()
	if q.Get("start_date") != "" || q.Get("end_date") != "" || q.Get("preset") != "" {
		rng, err := analytics.ResolveRange(q.Get("start_date"), q.Get("end_date"),
			analytics.Preset(q.Get("preset")), txs, h.today())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		txs = analytics.Filter(txs, rng)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	Description   *string                    `json:"description,omitempty"`
	Amount        *decimal.Decimal           `json:"amount,omitempty"`
	Date          *calendar.Date             `json:"date,omitempty"`
	Category      *string                    `json:"category,omitempty"`
	Type          *transaction.Type          `json:"type,omitempty"`
	PaymentMethod *transaction.PaymentMethod `json:"payment_method,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l := session.FromContext(r.Context()).Ledger

	txs, err := l.UpdateTransaction(r.Context(), id, transaction.Patch{
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          req.Date,
		Category:      req.Category,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, tx := range txs {
		if tx.ID != id {
			continue
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	http.Error(w, "transaction not found", http.StatusNotFound)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Ledger.RemoveTransaction(r.Context(), chi.URLParam(r, "id"))

	w.WriteHeader(http.StatusNoContent)
}
