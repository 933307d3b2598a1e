package summary

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

type Handler struct {
	today func() calendar.Date
}

func NewHandler() *Handler {
	return &Handler{today: calendar.Today}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/investments", h.investments)
	r.Get("/taxes", h.taxes)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	txs := session.FromContext(r.Context()).Ledger.Transactions()
	q := r.URL.Query()

	rng, err := analytics.ResolveRange(q.Get("start_date"), q.Get("end_date"),
		analytics.Preset(q.Get("preset")), txs, h.today())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, toSummaryResponse(analytics.Summarize(txs, rng)))
}

func (h *Handler) investments(w http.ResponseWriter, r *http.Request) {
	invs := session.FromContext(r.Context()).Ledger.Investments()

	writeJSON(w, toAllocationResponse(analytics.InvestmentAllocation(invs)))
}

func (h *Handler) taxes(w http.ResponseWriter, r *http.Request) {
	taxes := session.FromContext(r.Context()).Ledger.Taxes()

	writeJSON(w, toTaxOverviewResponse(analytics.TaxSummary(taxes, h.today())))
}
