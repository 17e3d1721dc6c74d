package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bathingculture/books/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.mark)
	r.Post("/automark", h.autoMark)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.AccountFilter(r.URL.Query().Get("account"))

	switch filter {
	case transaction.FilterNone, transaction.FilterIncome, transaction.FilterExpense:
	default:
		http.Error(w, "invalid account filter", http.StatusBadRequest)
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		slog.Error("listing transactions failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]any{"transactions": toResponseList(txs)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type markRequest struct {
	TransactionID  string           `json:"transactionId"`
	CreditedUserID *int64           `json:"creditedUserId"`
	Type           transaction.Type `json:"type"`
}

func validMarkType(t transaction.Type) bool {
	switch t {
	case transaction.TypeIncome, transaction.TypeExpense, transaction.TypeDeposit,
		transaction.TypeDistribution, transaction.TypeUnassigned:
		return true
	default:
		return false
	}
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TransactionID == "" {
		http.Error(w, "transactionId is required", http.StatusBadRequest)
		return
	}

	if !validMarkType(req.Type) {
		http.Error(w, "invalid transaction type", http.StatusBadRequest)
		return
	}

	if err := h.svc.Mark(r.Context(), req.TransactionID, req.CreditedUserID, req.Type); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		slog.Error("marking transaction failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]bool{"success": true}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type autoMarkFailureDTO struct {
	TransactionID string `json:"transaction_id"`
	Error         string `json:"error"`
}

type autoMarkResponse struct {
	Marked  int                  `json:"marked"`
	Skipped int                  `json:"skipped"`
	Failed  []autoMarkFailureDTO `json:"failed"`
}

func (h *Handler) autoMark(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.AutoMark(r.Context())
	if err != nil {
		slog.Error("automark failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := autoMarkResponse{
		Marked:  result.Marked,
		Skipped: result.Skipped,
		Failed:  make([]autoMarkFailureDTO, 0, len(result.Failed)),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, autoMarkFailureDTO{
			TransactionID: f.TransactionID,
			Error:         f.Err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
