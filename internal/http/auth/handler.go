package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/financia/internal/auth"
	"github.com/MrJamesThe3rd/financia/internal/session"
	"github.com/MrJamesThe3rd/financia/internal/settings"
)

type Handler struct {
	directory *auth.Directory
	tokens    *auth.Tokens
	sessions  *session.Manager
}

func NewHandler(directory *auth.Directory, tokens *auth.Tokens, sessions *session.Manager) *Handler {
	return &Handler{
		directory: directory,
		tokens:    tokens,
		sessions:  sessions,
	}
}

// Routes mounts the public endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// AccountRoutes mounts the endpoints that need a signed-in user.
func (h *Handler) AccountRoutes(r chi.Router) {
	r.Get("/", h.me)
	r.Patch("/", h.updateMe)
	r.Post("/logout", h.logout)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// accountResponse is the signed-in user together with their preferences.
type accountResponse struct {
	userResponse

	Currency settings.Currency `json:"currency"`
}

// updateAccountRequest changes only the fields that are present.
type updateAccountRequest struct {
	Name     *string `json:"name"`
	Currency *string `json:"currency"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.directory.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, auth.ErrMissingName),
			errors.Is(err, auth.ErrInvalidEmail),
			errors.Is(err, auth.ErrPasswordTooShort):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("failed to register user", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	h.respondWithToken(w, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.directory.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		slog.Error("failed to verify credentials", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.respondWithToken(w, user, http.StatusOK)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, user auth.User, status int) {
	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(tokenResponse{
		Token: token,
		User:  toUserResponse(user),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	l := session.FromContext(r.Context()).Ledger

	user, ok, err := h.directory.FindByEmail(r.Context(), l.User())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if !ok {
		http.Error(w, auth.ErrUserNotFound.Error(), http.StatusNotFound)
		return
	}

	respondAccount(w, user, l.Currency())
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var patch settings.Patch

	if req.Currency != nil {
		cur, err := settings.ParseCurrency(*req.Currency)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		patch.Currency = &cur
	}

	l := session.FromContext(r.Context()).Ledger

	var (
		user auth.User
		ok   bool
		err  error
	)

	if req.Name != nil {
		user, err = h.directory.UpdateName(r.Context(), l.User(), *req.Name)
		ok = err == nil
	} else {
		user, ok, err = h.directory.FindByEmail(r.Context(), l.User())
	}

	switch {
	case errors.Is(err, auth.ErrMissingName):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		slog.Error("failed to update user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	case !ok:
		http.Error(w, auth.ErrUserNotFound.Error(), http.StatusNotFound)
		return
	}

	prefs, err := l.UpdateSettings(r.Context(), patch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondAccount(w, user, prefs.Currency)
}

func respondAccount(w http.ResponseWriter, user auth.User, cur settings.Currency) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(accountResponse{
		userResponse: toUserResponse(user),
		Currency:     cur,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Drop(session.FromContext(r.Context()).Ledger.User())

	w.WriteHeader(http.StatusNoContent)
}
