// Package counterparty keeps the remembered categorization rules: "credit
// transactions from this counterparty to this partner". A nil user id means
// the counterparty is remembered but its transactions stay split between
// both partners.
package counterparty

import (
	"context"
)

type Repository interface {
	GetAll(ctx context.Context) (map[string]*int64, error)
	Upsert(ctx context.Context, counterpartyID string, userID *int64) error
	Delete(ctx context.Context, counterpartyID string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Map returns every remembered rule keyed by counterparty id.
func (s *Service) Map(ctx context.Context) (map[string]*int64, error) {
	return s.repo.GetAll(ctx)
}

// Remember writes or overwrites the rule for the counterparty. This is an
// explicit user action, never done automatically.
func (s *Service) Remember(ctx context.Context, counterpartyID string, userID *int64) error {
	return s.repo.Upsert(ctx, counterpartyID, userID)
}

// Forget drops the rule for the counterparty.
func (s *Service) Forget(ctx context.Context, counterpartyID string) error {
	return s.repo.Delete(ctx, counterpartyID)
}
