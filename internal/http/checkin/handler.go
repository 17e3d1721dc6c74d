package checkin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bathingculture/books/internal/auth"
	"github.com/bathingculture/books/internal/checkin"
)

type Handler struct {
	svc *checkin.Service
}

func NewHandler(svc *checkin.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/", h.delete)
}

type checkInResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Date     string `json:"check_in_date"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if s := r.URL.Query().Get("year"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			year = v
		}
	}

	if s := r.URL.Query().Get("month"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			month = v
		}
	}

	checkIns, err := h.svc.ListMonth(r.Context(), year, month)
	if err != nil {
		slog.Error("listing check-ins failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]checkInResponse, 0, len(checkIns))
	for _, ci := range checkIns {
		resp = append(resp, checkInResponse{
			UserID:   ci.UserID,
			Username: ci.Username,
			Date:     ci.Date.Format(time.DateOnly),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"checkins": resp}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createRequest struct {
	Date string `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFrom(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	if err := h.svc.Record(r.Context(), u.ID, date); err != nil {
		switch {
		case errors.Is(err, checkin.ErrFutureDate):
			http.Error(w, "cannot check in for future dates", http.StatusBadRequest)
		case errors.Is(err, checkin.ErrAlreadyCheckedIn):
			http.Error(w, "already checked in for this date", http.StatusBadRequest)
		default:
			slog.Error("recording check-in failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFrom(r.Context())

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	// Removing an absent check-in is a no-op, not an error.
	if err := h.svc.Remove(r.Context(), u.ID, date); err != nil {
		slog.Error("removing check-in failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
