package records

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financia/internal/session"
)

// Handler clears every record of the signed-in user. Chat history and rules are kept.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Delete("/", h.clear)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).Ledger.Clear(r.Context())

	w.WriteHeader(http.StatusNoContent)
}
