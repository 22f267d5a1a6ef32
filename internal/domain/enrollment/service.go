package enrollment

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Purchaser is what course and workshop handlers depend on
type Purchaser interface {
	Enroll(ctx context.Context, userID int64, item Item) error
	IsEnrolled(ctx context.Context, userID int64, item Item) (bool, error)
}

// Depositor is what the wallet admin handler depends on
type Depositor interface {
	Deposit(ctx context.Context, userID int64, amount int64, description string) error
}

// ReceiptSender is notified after a purchase commits
type ReceiptSender interface {
	Send(ctx context.Context, userID int64, item Item)
}

// Service wraps the store with validation and logging
type Service struct {
	store    *Store
	receipts ReceiptSender // nil disables receipt emails
}

// NewService creates enrollment service
func NewService(store *Store, receipts ReceiptSender) *Service {
	return &Service{store: store, receipts: receipts}
}

// Enroll purchases the item for the user
func (s *Service) Enroll(ctx context.Context, userID int64, item Item) error {
	if !item.Kind.Valid() {
		return ErrItemNotFound
	}

	if err := s.store.Enroll(ctx, userID, item); err != nil {
		return err
	}

	log.Info().
		Int64("user_id", userID).
		Str("kind", string(item.Kind)).
		Int64("item_id", item.ID).
		Msg("enrollment purchase applied")

	// Post-commit only. The transaction itself carries no side effects.
	if s.receipts != nil {
		s.receipts.Send(ctx, userID, item)
	}
	return nil
}

// IsEnrolled reports whether the user owns the item
func (s *Service) IsEnrolled(ctx context.Context, userID int64, item Item) (bool, error) {
	return s.store.IsEnrolled(ctx, userID, item)
}

// Deposit credits the user's wallet
func (s *Service) Deposit(ctx context.Context, userID int64, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if err := s.store.Deposit(ctx, userID, amount, description); err != nil {
		return err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("amount", amount).
		Msg("wallet deposit applied")
	return nil
}
