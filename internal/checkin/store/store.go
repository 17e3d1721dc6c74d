package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bathingculture/books/internal/checkin"
)

// Postgres unique_violation.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, userID int64, date time.Time) error {
	query := `
		INSERT INTO check_ins (user_id, check_in_date)
		VALUES ($1, $2)
	`

	if _, err := s.db.ExecContext(ctx, query, userID, date); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return checkin.ErrAlreadyCheckedIn
		}

		return fmt.Errorf("inserting check-in: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, userID int64, date time.Time) error {
	query := `
		DELETE FROM check_ins
		WHERE user_id = $1 AND check_in_date = $2
	`

	if _, err := s.db.ExecContext(ctx, query, userID, date); err != nil {
		return fmt.Errorf("deleting check-in: %w", err)
	}

	return nil
}

func (s *Store) ListMonth(ctx context.Context, year, month int) ([]checkin.CheckIn, error) {
	query := `
		SELECT c.user_id, u.username, c.check_in_date
		FROM check_ins c
		JOIN users u ON u.id = c.user_id
		WHERE EXTRACT(YEAR FROM c.check_in_date) = $1
		AND EXTRACT(MONTH FROM c.check_in_date) = $2
		ORDER BY c.check_in_date ASC
	`

	return s.queryCheckIns(ctx, query, year, month)
}

func (s *Store) ListAll(ctx context.Context) ([]checkin.CheckIn, error) {
	query := `
		SELECT c.user_id, u.username, c.check_in_date
		FROM check_ins c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.check_in_date DESC
	`

	return s.queryCheckIns(ctx, query)
}

func (s *Store) CountRange(ctx context.Context, userID int64, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM check_ins
		WHERE user_id = $1 AND check_in_date >= $2 AND check_in_date <= $3
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting check-ins: %w", err)
	}

	return count, nil
}

func (s *Store) queryCheckIns(ctx context.Context, query string, args ...any) ([]checkin.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []checkin.CheckIn

	for rows.Next() {
		var ci checkin.CheckIn
		if err := rows.Scan(&ci.UserID, &ci.Username, &ci.Date); err != nil {
			return nil, fmt.Errorf("scanning check-in: %w", err)
		}

		checkIns = append(checkIns, ci)
	}

	return checkIns, rows.Err()
}
