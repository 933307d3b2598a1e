package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/financia/internal/session"
)

// Authenticate resolves the bearer token to the user's session and stores it
// in the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		email, err := h.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		s, err := h.sessions.Get(r.Context(), email)
		if err != nil {
			slog.Error("failed to open session", "email", email, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}
