package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/medplus/academy-api/internal/domain/enrollment"
)

type fakeDepositor struct {
	userID      int64
	amount      int64
	description string
	calls       int
}

func (f *fakeDepositor) Deposit(ctx context.Context, userID, amount int64, description string) error {
	f.userID = userID
	f.amount = amount
	f.description = description
	f.calls++
	return nil
}

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock, *fakeDepositor) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	dep := &fakeDepositor{}
	svc := NewService(NewRepository(sqlx.NewDb(db, "sqlmock")), dep)
	return svc, mock, dep
}

func TestGetSummary(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`SELECT wallet_balance FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(1500))

	now := time.Now()
	mock.ExpectQuery(`SELECT id, user_id, amount, type, description`).
		WithArgs(int64(7), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "type", "description", "created_at"}).
			AddRow(2, 7, 500, "withdraw", "Buy course Anatomy 101", now).
			AddRow(1, 7, 2000, "deposit", "Admin deposit", now.Add(-time.Hour)))

	mock.ExpectQuery(`SELECT count\(\*\) FROM wallet_transactions`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	summary, total, err := svc.GetSummary(context.Background(), 7, 0, 0)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}

	if summary.Balance != 1500 {
		t.Errorf("balance = %d, want 1500", summary.Balance)
	}
	if total != 2 || len(summary.Transactions) != 2 {
		t.Errorf("total = %d, transactions = %d", total, len(summary.Transactions))
	}
	if summary.Transactions[0].Type != TypeWithdraw {
		t.Errorf("first transaction type = %q, want withdraw", summary.Transactions[0].Type)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetSummaryUnknownAccount(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`SELECT wallet_balance FROM users WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))

	_, _, err := svc.GetSummary(context.Background(), 99, 1, 20)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestDepositDefaults(t *testing.T) {
	svc, _, dep := newMockService(t)

	if err := svc.Deposit(context.Background(), 7, 500, ""); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	if dep.calls != 1 {
		t.Fatalf("depositor calls = %d, want 1", dep.calls)
	}
	if dep.userID != 7 || dep.amount != 500 {
		t.Errorf("deposit forwarded (%d, %d)", dep.userID, dep.amount)
	}
	if dep.description != "Admin deposit" {
		t.Errorf("description = %q, want Admin deposit", dep.description)
	}
}

func TestDepositInvalidAmount(t *testing.T) {
	svc, _, dep := newMockService(t)

	for _, amount := range []int64{0, -100} {
		if err := svc.Deposit(context.Background(), 7, amount, "top up"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if dep.calls != 0 {
		t.Errorf("depositor called %d times for invalid amounts", dep.calls)
	}
}

var _ enrollment.Depositor = (*fakeDepositor)(nil)
