package checkin

import (
	"context"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=checkin
type Repository interface {
	Insert(ctx context.Context, userID int64, date time.Time) error
	Delete(ctx context.Context, userID int64, date time.Time) error
	ListMonth(ctx context.Context, year, month int) ([]CheckIn, error)
	ListAll(ctx context.Context) ([]CheckIn, error)
	CountRange(ctx context.Context, userID int64, start, end time.Time) (int, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record registers a check-in day for the user. Future dates are rejected;
// a second check-in for the same day surfaces as ErrAlreadyCheckedIn.
func (s *Service) Record(ctx context.Context, userID int64, date time.Time) error {
	if dateOnly(date).After(dateOnly(s.now())) {
		return ErrFutureDate
	}

	return s.repo.Insert(ctx, userID, dateOnly(date))
}

// Remove deletes the user's check-in for the date. Removing an absent
// check-in is a no-op.
func (s *Service) Remove(ctx context.Context, userID int64, date time.Time) error {
	return s.repo.Delete(ctx, userID, dateOnly(date))
}

// ListMonth returns all partners' check-ins within the calendar month.
func (s *Service) ListMonth(ctx context.Context, year, month int) ([]CheckIn, error) {
	return s.repo.ListMonth(ctx, year, month)
}

// ListAll returns the full check-in history, newest first.
func (s *Service) ListAll(ctx context.Context) ([]CheckIn, error) {
	return s.repo.ListAll(ctx)
}

// Count returns the number of check-in days for the user within
// [start, end], both ends inclusive.
func (s *Service) Count(ctx context.Context, userID int64, start, end time.Time) (int, error) {
	return s.repo.CountRange(ctx, userID, dateOnly(start), dateOnly(end))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
