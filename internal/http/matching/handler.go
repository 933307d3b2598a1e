package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financia/internal/matching"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription       string `json:"raw_description"`
	Matched              bool   `json:"matched"`
	Pattern              string `json:"pattern,omitempty"`
	PreferredDescription string `json:"preferred_description,omitempty"`
	Category             string `json:"category,omitempty"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("description")
	if rawDesc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	user := session.FromContext(r.Context()).Ledger.User()

	rule, ok, err := h.svc.Suggest(r.Context(), user, rawDesc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		RawDescription:       rawDesc,
		Matched:              ok,
		Pattern:              rule.Pattern,
		PreferredDescription: rule.Description,
		Category:             rule.Category,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern           string `json:"raw_pattern"`
	PreferredDescription string `json:"preferred_description"`
	Category             string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.PreferredDescription == "" && req.Category == "" {
		http.Error(w, "preferred_description or category is required", http.StatusBadRequest)
		return
	}

	user := session.FromContext(r.Context()).Ledger.User()

	err := h.svc.Learn(r.Context(), user, matching.Rule{
		Pattern:     req.RawPattern,
		Description: req.PreferredDescription,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, matching.ErrEmptyPattern) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}
