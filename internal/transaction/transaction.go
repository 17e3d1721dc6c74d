package transaction

import (
	"errors"
	"time"

	"github.com/bathingculture/books/internal/money"
)

// Type is the category assigned to a bank transaction. A transaction with
// no marked row is unassigned.
type Type string

const (
	TypeIncome       Type = "income"
	TypeExpense      Type = "expense"
	TypeDeposit      Type = "deposit"
	TypeDistribution Type = "distribution"
	TypeUnassigned   Type = "unassigned"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrAlreadyMarked = errors.New("transaction already marked")
)

// Marked is the local annotation row for a bank transaction. The bank feed
// is the source of truth for money movement; this row only records the
// category and the partner it is credited to. Amount is stored as an
// absolute value with the direction in IsDebit.
type Marked struct {
	ID               int64
	AccountNumber    string
	TransactionID    string
	IsDebit          bool
	Amount           money.Amount
	CreditedUserID   *int64
	Type             Type
	CounterpartyID   string
	CounterpartyName string
	PostedAt         time.Time
}

// Transaction is the unified view served to the dashboard: one bank
// transaction merged with whatever local annotation exists for it.
type Transaction struct {
	ID               string
	AccountNumber    string
	CounterpartyID   string
	CounterpartyName string
	Amount           money.Amount
	Kind             string
	Status           string
	PostedAt         time.Time

	Type             Type
	CreditedUserID   *int64
	CreditedUsername string
	IsInternal       bool
}
