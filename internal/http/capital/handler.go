package capital

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bathingculture/books/internal/capital"
	"github.com/bathingculture/books/internal/checkin"
	"github.com/bathingculture/books/internal/transaction"
	"github.com/bathingculture/books/internal/user"
)

type Handler struct {
	checkins *checkin.Service
	txs      *transaction.Service
	users    *user.Service
}

func NewHandler(checkins *checkin.Service, txs *transaction.Service, users *user.Service) *Handler {
	return &Handler{checkins: checkins, txs: txs, users: users}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.accounts)
	r.Get("/report", h.report)
}

func (h *Handler) compute(ctx context.Context, g capital.Granularity) ([]capital.Period, []capital.Partner, error) {
	partners, err := h.partners(ctx)
	if err != nil {
		return nil, nil, err
	}

	checkIns, err := h.checkins.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	capitalCheckIns := make([]capital.CheckIn, 0, len(checkIns))
	for _, ci := range checkIns {
		capitalCheckIns = append(capitalCheckIns, capital.CheckIn{UserID: ci.UserID, Date: ci.Date})
	}

	entries, err := h.txs.CapitalEntries(ctx)
	if err != nil {
		return nil, nil, err
	}

	ranges := capital.Ranges(g, time.Now().UTC())

	return capital.Compute(ranges, partners, capitalCheckIns, entries), partners, nil
}

func (h *Handler) partners(ctx context.Context) ([]capital.Partner, error) {
	users, err := h.users.Partners(ctx)
	if err != nil {
		return nil, err
	}

	partners := make([]capital.Partner, 0, len(users))
	for _, u := range users {
		partners = append(partners, capital.Partner{ID: u.ID, Username: u.Username})
	}

	return partners, nil
}

func granularityFrom(r *http.Request) (capital.Granularity, bool) {
	switch g := capital.Granularity(r.URL.Query().Get("granularity")); g {
	case capital.GranularityMonthly, capital.GranularityYearly, capital.GranularityAllTime:
		return g, true
	case "":
		return capital.GranularityMonthly, true
	default:
		return "", false
	}
}

func (h *Handler) accounts(w http.ResponseWriter, r *http.Request) {
	g, ok := granularityFrom(r)
	if !ok {
		http.Error(w, "invalid granularity", http.StatusBadRequest)
		return
	}

	periods, _, err := h.compute(r.Context(), g)
	if err != nil {
		slog.Error("computing capital accounts failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"periods": periods}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	g, ok := granularityFrom(r)
	if !ok {
		http.Error(w, "invalid granularity", http.StatusBadRequest)
		return
	}

	periods, partners, err := h.compute(r.Context(), g)
	if err != nil {
		slog.Error("computing capital report failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(capital.Report(periods, partners))); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}
