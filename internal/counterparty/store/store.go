package store

import (
	"context"
	"database/sql"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetAll(ctx context.Context) (map[string]*int64, error) {
	query := `
		SELECT counterparty_id, user_id
		FROM counterparty_map
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing counterparty map: %w", err)
	}
	defer rows.Close()

	m := make(map[string]*int64)

	for rows.Next() {
		var (
			counterpartyID string
			userID         sql.NullInt64
		)

		if err := rows.Scan(&counterpartyID, &userID); err != nil {
			return nil, fmt.Errorf("scanning counterparty mapping: %w", err)
		}

		if userID.Valid {
			m[counterpartyID] = &userID.Int64
		} else {
			m[counterpartyID] = nil
		}
	}

	return m, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, counterpartyID string, userID *int64) error {
	query := `
		INSERT INTO counterparty_map (counterparty_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (counterparty_id) DO UPDATE
		SET user_id = EXCLUDED.user_id
	`

	if _, err := s.db.ExecContext(ctx, query, counterpartyID, userID); err != nil {
		return fmt.Errorf("upserting counterparty mapping: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, counterpartyID string) error {
	query := `
		DELETE FROM counterparty_map
		WHERE counterparty_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, counterpartyID); err != nil {
		return fmt.Errorf("deleting counterparty mapping: %w", err)
	}

	return nil
}
