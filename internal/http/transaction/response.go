package transaction

import (
	"time"

	"github.com/bathingculture/books/internal/transaction"
)

type transactionResponse struct {
	ID               string           `json:"id"`
	CounterpartyID   string           `json:"counterparty_id"`
	CounterpartyName string           `json:"counterparty_name"`
	Amount           float64          `json:"amount"`
	Kind             string           `json:"kind"`
	Status           string           `json:"status"`
	PostedAt         time.Time        `json:"posted_at"`
	Type             transaction.Type `json:"type"`
	CreditedUserID   *int64           `json:"credited_user_id"`
	IsInternal       bool             `json:"is_internal"`
}

func toResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:               tx.ID,
		CounterpartyID:   tx.CounterpartyID,
		CounterpartyName: tx.CounterpartyName,
		Amount:           tx.Amount.Float(),
		Kind:             tx.Kind,
		Status:           tx.Status,
		PostedAt:         tx.PostedAt,
		Type:             tx.Type,
		CreditedUserID:   tx.CreditedUserID,
		IsInternal:       tx.IsInternal,
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
