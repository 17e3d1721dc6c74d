package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bathingculture/books/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1
	`

	var u user.User

	err := s.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by username: %w", err)
	}

	return &u, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		WHERE id = $1
	`

	var u user.User

	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by id: %w", err)
	}

	return &u, nil
}

func (s *Store) List(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT id, username, password_hash
		FROM users
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, &u)
	}

	return users, rows.Err()
}

func (s *Store) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash).Scan(&u.ID); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := `
		UPDATE users
		SET password_hash = $1
		WHERE id = $2
	`

	if _, err := s.db.ExecContext(ctx, query, hash, id); err != nil {
		return fmt.Errorf("updating password hash: %w", err)
	}

	return nil
}
