package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/chat"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.history)
	r.Post("/", h.send)
	r.Delete("/", h.reset)
}

type messageResponse struct {
	Role      chat.Role `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type sendRequest struct {
	Message string `json:"message"`
}

func toResponseList(msgs []chat.Message) []messageResponse {
	resp := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		resp[i] = messageResponse{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: time.UnixMilli(m.Timestamp).UTC(),
		}
	}

	return resp
}

func writeHistory(w http.ResponseWriter, msgs []chat.Message) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(msgs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	writeHistory(w, session.FromContext(r.Context()).Ledger.Messages())
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	a, err := session.FromContext(r.Context()).Assistant()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msgs, err := a.Send(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyMessage):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			http.Error(w, "previous message is still being processed", http.StatusServiceUnavailable)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeHistory(w, msgs)
}

// reset starts a fresh model conversation on the next message. The history is kept.
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	a, err := session.FromContext(r.Context()).Assistant()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	a.Reset()

	w.WriteHeader(http.StatusNoContent)
}
