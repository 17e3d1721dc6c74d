package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bathingculture/books/internal/transaction"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMarkedColumns = `
	id, account_number, transaction_id, is_debit, amount,
	credited_user_id, type, counterparty_id, counterparty_name, posted_at
`

func scanMarked(s scanner) (*transaction.Marked, error) {
	var (
		m        transaction.Marked
		typeStr  string
		credited sql.NullInt64
		postedAt sql.NullTime
	)

	if err := s.Scan(
		&m.ID, &m.AccountNumber, &m.TransactionID, &m.IsDebit, &m.Amount,
		&credited, &typeStr, &m.CounterpartyID, &m.CounterpartyName, &postedAt,
	); err != nil {
		return nil, err
	}

	m.Type = transaction.Type(typeStr)
	if credited.Valid {
		m.CreditedUserID = &credited.Int64
	}

	m.PostedAt = postedAt.Time

	return &m, nil
}

func (s *Store) GetAll(ctx context.Context) ([]transaction.Marked, error) {
	query := `SELECT ` + selectMarkedColumns + `
		FROM marked_transactions
		ORDER BY posted_at DESC`

	return s.queryMarked(ctx, query)
}

func (s *Store) ListByTypes(ctx context.Context, types []transaction.Type) ([]transaction.Marked, error) {
	query := `SELECT ` + selectMarkedColumns + `
		FROM marked_transactions
		WHERE type = ANY($1)
		ORDER BY posted_at DESC`

	typeStrs := make([]string, len(types))
	for i, t := range types {
		typeStrs[i] = string(t)
	}

	return s.queryMarked(ctx, query, typeStrs)
}

func (s *Store) queryMarked(ctx context.Context, query string, args ...any) ([]transaction.Marked, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing marked transactions: %w", err)
	}
	defer rows.Close()

	var marked []transaction.Marked

	for rows.Next() {
		m, err := scanMarked(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning marked transaction: %w", err)
		}

		marked = append(marked, *m)
	}

	return marked, rows.Err()
}

// Upsert writes the annotation keyed on transaction_id. On conflict only the
// categorization fields change; the bank-sourced columns keep their first
// recorded values.
func (s *Store) Upsert(ctx context.Context, m *transaction.Marked) error {
	query := `
		INSERT INTO marked_transactions (
			account_number, transaction_id, is_debit, amount,
			credited_user_id, type, counterparty_id, counterparty_name, posted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (transaction_id) DO UPDATE
		SET credited_user_id = EXCLUDED.credited_user_id,
		    type = EXCLUDED.type
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		m.AccountNumber,
		m.TransactionID,
		m.IsDebit,
		m.Amount.Float(),
		m.CreditedUserID,
		m.Type,
		m.CounterpartyID,
		m.CounterpartyName,
		m.PostedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("upserting marked transaction: %w", err)
	}

	return nil
}

// Insert writes a new annotation and refuses to overwrite an existing one.
func (s *Store) Insert(ctx context.Context, m *transaction.Marked) error {
	query := `
		INSERT INTO marked_transactions (
			account_number, transaction_id, is_debit, amount,
			credited_user_id, type, counterparty_id, counterparty_name, posted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		m.AccountNumber,
		m.TransactionID,
		m.IsDebit,
		m.Amount.Float(),
		m.CreditedUserID,
		m.Type,
		m.CounterpartyID,
		m.CounterpartyName,
		m.PostedAt,
	).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return transaction.ErrAlreadyMarked
		}

		return fmt.Errorf("inserting marked transaction: %w", err)
	}

	return nil
}
