package export

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financia/internal/analytics"
	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/export"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

type Handler struct {
	today func() calendar.Date
}

func NewHandler() *Handler {
	return &Handler{today: calendar.Today}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l := session.FromContext(r.Context()).Ledger
	txs := l.Transactions()

	rng, err := analytics.ResolveRange(q.Get("start_date"), q.Get("end_date"),
		analytics.Preset(q.Get("preset")), txs, h.today())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(rng)))

	if err := export.Write(w, format, txs, rng, l.Currency()); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
	}
}
