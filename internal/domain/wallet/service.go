package wallet

import (
	"context"

	"github.com/medplus/academy-api/internal/domain/enrollment"
)

// Service exposes wallet reads plus the admin top-up, which delegates to
// the enrollment store so deposits share the debit path's ledger rules.
type Service struct {
	repo      *Repository
	depositor enrollment.Depositor
}

// NewService creates wallet service
func NewService(repo *Repository, depositor enrollment.Depositor) *Service {
	return &Service{repo: repo, depositor: depositor}
}

// GetSummary returns the balance and a page of the ledger, newest first
func (s *Service) GetSummary(ctx context.Context, userID int64, page, limit int) (*Summary, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	txs, err := s.repo.ListTransactions(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountTransactions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return &Summary{Balance: balance, Transactions: txs}, total, nil
}

// Deposit credits a user's wallet on behalf of an administrator
func (s *Service) Deposit(ctx context.Context, userID int64, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if description == "" {
		description = "Admin deposit"
	}
	return s.depositor.Deposit(ctx, userID, amount, description)
}
