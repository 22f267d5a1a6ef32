package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store executes wallet purchase transactions against Postgres. It is the
// only code path that mutates users.wallet_balance, and every mutation is
// paired with a wallet_transactions ledger row inside the same transaction.
type Store struct {
	db *sqlx.DB
}

// NewStore creates the purchase store
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// Enroll purchases the item for the user as a single all-or-nothing
// transaction: duplicate check, price lookup, balance check under a row
// lock, atomic debit, ledger append, pair-row insert. Any failure rolls
// everything back.
func (s *Store) Enroll(ctx context.Context, userID int64, item Item) error {
	t, err := item.Kind.tables()
	if err != nil {
		return err
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2`, t.pair, t.itemColumn),
		userID, item.ID)
	if err == nil {
		return ErrAlreadyEnrolled
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var catalogItem struct {
		Price int64  `db:"price"`
		Title string `db:"title"`
	}
	err = tx.GetContext(ctx, &catalogItem,
		fmt.Sprintf(`SELECT price, title FROM %s WHERE id = $1`, t.catalog),
		item.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrItemNotFound
	}
	if err != nil {
		return err
	}

	// Lock the account row so the balance check, the debit and the pair
	// insert share one isolation scope. Without it two concurrent purchases
	// could both read a stale sufficient balance.
	var balance int64
	err = tx.GetContext(ctx, &balance,
		`SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	if balance < catalogItem.Price {
		return ErrInsufficientFunds
	}

	// The debit is arithmetic at the store, never computed in Go.
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET wallet_balance = wallet_balance - $1, updated_at = now() WHERE id = $2`,
		catalogItem.Price, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (user_id, amount, description, type)
		VALUES ($1, $2, $3, 'withdraw')
	`, userID, catalogItem.Price, t.action+" "+catalogItem.Title); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES ($1, $2)`, t.pair, t.itemColumn),
		userID, item.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyEnrolled
		}
		return err
	}

	return tx.Commit()
}

// Deposit credits the user's wallet and appends the matching ledger entry.
// Used by the admin top-up endpoint; the symmetric counterpart of Enroll.
func (s *Store) Deposit(ctx context.Context, userID int64, amount int64, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.GetContext(ctx, &balance,
		`SELECT wallet_balance FROM users WHERE id = $1 FOR UPDATE`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $1, updated_at = now() WHERE id = $2`,
		amount, userID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (user_id, amount, description, type)
		VALUES ($1, $2, $3, 'deposit')
	`, userID, amount, description); err != nil {
		return err
	}

	return tx.Commit()
}

// ItemInfo returns the catalog title and price for a purchasable item
func (s *Store) ItemInfo(ctx context.Context, item Item) (string, int64, error) {
	t, err := item.Kind.tables()
	if err != nil {
		return "", 0, err
	}

	var row struct {
		Title string `db:"title"`
		Price int64  `db:"price"`
	}
	err = s.db.GetContext(ctx, &row,
		fmt.Sprintf(`SELECT title, price FROM %s WHERE id = $1`, t.catalog),
		item.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrItemNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return row.Title, row.Price, nil
}

// IsEnrolled reports whether the user already owns the item
func (s *Store) IsEnrolled(ctx context.Context, userID int64, item Item) (bool, error) {
	t, err := item.Kind.tables()
	if err != nil {
		return false, err
	}

	var exists int
	err = s.db.GetContext(ctx, &exists,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2`, t.pair, t.itemColumn),
		userID, item.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
