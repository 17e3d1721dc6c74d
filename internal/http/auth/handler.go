package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bathingculture/books/internal/auth"
	"github.com/bathingculture/books/internal/user"
)

type Handler struct {
	users  *user.Service
	tokens *auth.Tokens
	secure bool
}

func NewHandler(users *user.Service, tokens *auth.Tokens, secure bool) *Handler {
	return &Handler{users: users, tokens: tokens, secure: secure}
}

// Routes registers the unauthenticated login route.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
}

// AuthedRoutes registers routes that require a session.
func (h *Handler) AuthedRoutes(r chi.Router) {
	r.Post("/change-password", h.changePassword)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		slog.Error("login failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if err := h.setSessionCookie(w, u); err != nil {
		slog.Error("failed to issue session token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFrom(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.NewPassword == "" {
		http.Error(w, "newPassword is required", http.StatusBadRequest)
		return
	}

	if err := h.users.ChangePassword(r.Context(), u.ID, req.NewPassword); err != nil {
		slog.Error("change password failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	// Existing sessions stay valid until expiry; re-issue so this one
	// outlives the change.
	if err := h.setSessionCookie(w, u); err != nil {
		slog.Error("failed to issue session token", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, u *user.User) error {
	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}
