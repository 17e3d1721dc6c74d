package counterparty

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bathingculture/books/internal/counterparty"
)

type Handler struct {
	svc *counterparty.Service
}

func NewHandler(svc *counterparty.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/", h.remember)
	r.Delete("/", h.forget)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Map(r.Context())
	if err != nil {
		slog.Error("loading counterparty map failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"map": m}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type rememberRequest struct {
	CounterpartyID string `json:"counterpartyId"`
	UserID         *int64 `json:"userId"`
}

func (h *Handler) remember(w http.ResponseWriter, r *http.Request) {
	var req rememberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.CounterpartyID == "" {
		http.Error(w, "counterpartyId is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Remember(r.Context(), req.CounterpartyID, req.UserID); err != nil {
		slog.Error("remembering counterparty failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	counterpartyID := r.URL.Query().Get("counterpartyId")
	if counterpartyID == "" {
		http.Error(w, "counterpartyId is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Forget(r.Context(), counterpartyID); err != nil {
		slog.Error("forgetting counterparty failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
