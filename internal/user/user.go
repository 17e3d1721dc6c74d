package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is one of the two LLC partners. Accounts are created out of band via
// booksctl and never change except for the password hash.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}
