package tax

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/category"
	"github.com/MrJamesThe3rd/financia/internal/session"
	"github.com/MrJamesThe3rd/financia/internal/tax"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/toggle", h.toggle)
}

type taxResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  calendar.Date   `json:"due_date"`
	Category string          `json:"category"`
	Label    string          `json:"category_name"`
	Status   tax.Status      `json:"status"`
}

func toResponse(t tax.Tax) taxResponse {
	return taxResponse{
		ID:       t.ID,
		Name:     t.Name,
		Amount:   t.Amount,
		DueDate:  t.DueDate,
		Category: t.Category,
		Label:    category.Resolve(category.KindTax, t.Category).Name,
		Status:   t.Status,
	}
}

func writeTax(w http.ResponseWriter, taxes []tax.Tax, id string, status int) {
	for _, t := range taxes {
		if t.ID != id {
			continue
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	http.Error(w, "tax not found", http.StatusNotFound)
}

type createTaxRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  calendar.Date   `json:"due_date"`
	Category string          `json:"category"`
	Status   tax.Status      `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Status == "" {
		req.Status = tax.StatusPending
	}

	taxes, err := session.FromContext(r.Context()).Ledger.AddTax(r.Context(), tax.CreateParams{
		Name:     strings.TrimSpace(req.Name),
		Amount:   req.Amount,
		DueDate:  req.DueDate,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeTax(w, taxes, taxes[0].ID, http.StatusCreated)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	taxes := session.FromContext(r.Context()).Ledger.Taxes()

	resp := make([]taxResponse, len(taxes))
	for i, t := range taxes {
		resp[i] = toResponse(t)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTaxRequest struct {
	Name     *string          `json:"name,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	DueDate  *calendar.Date   `json:"due_date,omitempty"`
	Category *string          `json:"category,omitempty"`
	Status   *tax.Status      `json:"status,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	taxes, err := session.FromContext(r.Context()).Ledger.UpdateTax(r.Context(), id, tax.Patch{
		Name:     req.Name,
		Amount:   req.Amount,
		DueDate:  req.DueDate,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeTax(w, taxes, id, http.StatusOK)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	writeTax(w, session.FromContext(r.Context()).Ledger.ToggleTaxStatus(r.Context(), id), id, http.StatusOK)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Ledger.RemoveTax(r.Context(), chi.URLParam(r, "id"))

	w.WriteHeader(http.StatusNoContent)
}
