package investment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/investment"
	"github.com/MrJamesThe3rd/financia/internal/session"
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

type investmentResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Ticker   string          `json:"ticker,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Date     calendar.Date   `json:"date"`
	Category string          `json:"category"`
	Label    string          `json:"category_name"`
}

func toResponse(inv investment.Investment) investmentResponse {
	return investmentResponse{
		ID:       inv.ID,
		Name:     inv.Name,
		Ticker:   inv.Ticker,
		Amount:   inv.Amount,
		Date:     inv.Date,
		Category: inv.Category,
		Label:    category.Resolve(category.KindInvestment, inv.Category).Name,
	}
}

type createInvestmentRequest struct {
	Name     string          `json:"name"`
	Ticker   string          `json:"ticker"`
	Amount   decimal.Decimal `json:"amount"`
	Date     calendar.Date   `json:"date"`
	Category string          `json:"category"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Date == "" {
		req.Date = h.today()
	}

	invs, err := session.FromContext(r.Context()).Ledger.AddInvestment(r.Context(), investment.CreateParams{
		Name:     strings.TrimSpace(req.Name),
		Ticker:   strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Amount:   req.Amount,
		Date:     req.Date,
		Category: req.Category,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(invs[0])); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invs := session.FromContext(r.Context()).Ledger.Investments()

	resp := make([]investmentResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateInvestmentRequest struct {
	Name     *string          `json:"name,omitempty"`
	Ticker   *string          `json:"ticker,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Date     *calendar.Date   `json:"date,omitempty"`
	Category *string          `json:"category,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	invs, err := session.FromContext(r.Context()).Ledger.UpdateInvestment(r.Context(), id, investment.Patch{
		Name:     req.Name,
		Ticker:   req.Ticker,
		Amount:   req.Amount,
		Date:     req.Date,
		Category: req.Category,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, inv := range invs {
		if inv.ID != id {
			continue
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	http.Error(w, "investment not found", http.StatusNotFound)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Ledger.RemoveInvestment(r.Context(), chi.URLParam(r, "id"))

	w.WriteHeader(http.StatusNoContent)
}
