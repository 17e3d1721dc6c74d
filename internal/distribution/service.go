// Package distribution executes capital distributions: an outbound bank
// transfer from the LLC account, recorded locally as a marked transaction
// crediting the partner who initiated it.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bathingculture/books/internal/mercury"
	"github.com/bathingculture/books/internal/transaction"
)

var (
	ErrInvalidAmount    = errors.New("distribution amount must be positive")
	ErrMissingRecipient = errors.New("recipient is required")
)

// Bank is the slice of the banking API the distribution flow uses.
type Bank interface {
	Transfer(ctx context.Context, fromAccountNumber string, params mercury.TransferParams) (*mercury.TransferResult, error)
	Recipients(ctx context.Context) ([]mercury.Recipient, error)
	Balance(ctx context.Context, accountNumber string) (float64, error)
}

// Bookkeeper persists the local annotation for an executed transfer.
type Bookkeeper interface {
	Insert(ctx context.Context, m *transaction.Marked) error
}

type Service struct {
	bank Bank
	book Bookkeeper

	llcAccount    string
	incomeAccount string
	selfRecipient string
}

func NewService(bank Bank, book Bookkeeper, llcAccount, incomeAccount, selfRecipient string) *Service {
	return &Service{
		bank:          bank,
		book:          book,
		llcAccount:    llcAccount,
		incomeAccount: incomeAccount,
		selfRecipient: selfRecipient,
	}
}

// Distribute transfers the amount from the LLC account to the recipient and
// records exactly one distribution row credited to the initiating user. The
// idempotency key is passed through to the banking API unchanged; when the
// caller supplies none, a fresh one is generated so a bare retry is a new
// transfer.
//
// There is no transaction spanning the external transfer and the local
// insert: if the insert fails the money has still moved, and the transfer
// id is logged for manual reconciliation.
func (s *Service) Distribute(ctx context.Context, userID int64, recipientID string, amount float64, idempotencyKey string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	if recipientID == "" {
		return "", ErrMissingRecipient
	}

	if idempotencyKey == "" {
		idempotencyKey = "dist_" + uuid.NewString()
	}

	result, err := s.bank.Transfer(ctx, s.llcAccount, mercury.TransferParams{
		RecipientID:    recipientID,
		Amount:         amount,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return "", fmt.Errorf("executing transfer: %w", err)
	}

	m := &transaction.Marked{
		AccountNumber:    s.llcAccount,
		TransactionID:    result.ID,
		IsDebit:          result.Amount < 0,
		Amount:           result.Amount.Abs(),
		CreditedUserID:   &userID,
		Type:             transaction.TypeDistribution,
		CounterpartyID:   result.CounterpartyID,
		CounterpartyName: result.CounterpartyName,
		PostedAt:         time.Now().UTC(),
	}

	if err := s.book.Insert(ctx, m); err != nil {
		slog.Error("transfer executed but bookkeeping insert failed; reconcile manually",
			"transfer_id", result.ID,
			"recipient_id", recipientID,
			"amount", amount,
			"error", err,
		)

		return result.ID, fmt.Errorf("recording distribution %s: %w", result.ID, err)
	}

	return result.ID, nil
}

// Recipients lists the bank's transfer recipients, hiding the org's own
// entry.
func (s *Service) Recipients(ctx context.Context) ([]mercury.Recipient, error) {
	recipients, err := s.bank.Recipients(ctx)
	if err != nil {
		return nil, err
	}

	filtered := recipients[:0]

	for _, r := range recipients {
		if r.Name == s.selfRecipient {
			continue
		}

		filtered = append(filtered, r)
	}

	return filtered, nil
}

// Balance returns the income account's available balance.
func (s *Service) Balance(ctx context.Context) (float64, error) {
	return s.bank.Balance(ctx, s.incomeAccount)
}
