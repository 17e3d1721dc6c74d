package distribution

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bathingculture/books/internal/auth"
	"github.com/bathingculture/books/internal/distribution"
)

type Handler struct {
	svc *distribution.Service
}

func NewHandler(svc *distribution.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/distribution", h.distribute)
	r.Get("/recipients", h.recipients)
	r.Get("/balance", h.balance)
}

type distributeRequest struct {
	Amount         float64 `json:"amount"`
	RecipientID    string  `json:"recipientId"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

func (h *Handler) distribute(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFrom(r.Context())

	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transferID, err := h.svc.Distribute(r.Context(), u.ID, req.RecipientID, req.Amount, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, distribution.ErrInvalidAmount),
			errors.Is(err, distribution.ErrMissingRecipient):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("distribution failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"success": true, "transferId": transferID}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) recipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.svc.Recipients(r.Context())
	if err != nil {
		slog.Error("listing recipients failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"recipients": recipients}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		slog.Error("fetching balance failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]float64{"balance": balance}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
