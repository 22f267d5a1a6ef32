package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestEnrollSuccess(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM user_courses").
		WithArgs(int64(7), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM courses").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "title"}).AddRow(100, "Anatomy 101"))
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(100))
	mock.ExpectExec("UPDATE users SET wallet_balance = wallet_balance -").
		WithArgs(int64(100), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(int64(7), int64(100), "Buy course Anatomy 101").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO user_courses").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := store.Enroll(context.Background(), 7, Item{Kind: KindCourse, ID: 3}); err != nil {
		t.Fatalf("expected success with balance == price, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnrollWorkshopLedgerDescription(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM workshop_registrations").
		WithArgs(int64(7), int64(5)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM workshops").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"price", "title"}).AddRow(250, "Suturing Basics"))
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(300))
	mock.ExpectExec("UPDATE users SET wallet_balance = wallet_balance -").
		WithArgs(int64(250), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(int64(7), int64(250), "Buy workshop Suturing Basics").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO workshop_registrations").
		WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := store.Enroll(context.Background(), 7, Item{Kind: KindWorkshop, ID: 5}); err != nil {
		t.Fatalf("workshop purchase failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnrollAlreadyEnrolled(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM user_courses").
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	err := store.Enroll(context.Background(), 7, Item{Kind: KindCourse, ID: 3})
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnrollItemNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM workshop_registrations").
		WithArgs(int64(7), int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM workshops").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.Enroll(context.Background(), 7, Item{Kind: KindWorkshop, ID: 99})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestEnrollAccountNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM user_courses").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM courses").
		WillReturnRows(sqlmock.NewRows([]string{"price", "title"}).AddRow(50, "Histology"))
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.Enroll(context.Background(), 404, Item{Kind: KindCourse, ID: 3})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestEnrollInsufficientFunds(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM user_courses").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM courses").
		WillReturnRows(sqlmock.NewRows([]string{"price", "title"}).AddRow(100, "Anatomy 101"))
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(99))
	mock.ExpectRollback()

	err := store.Enroll(context.Background(), 7, Item{Kind: KindCourse, ID: 3})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds at balance == price-1, got %v", err)
	}

	// No UPDATE or INSERT may run once the balance check fails.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEnrollRollbackOnInsertFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM user_courses").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM courses").
		WillReturnRows(sqlmock.NewRows([]string{"price", "title"}).AddRow(100, "Anatomy 101"))
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(500))
	mock.ExpectExec("UPDATE users SET wallet_balance = wallet_balance -").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO user_courses").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := store.Enroll(context.Background(), 7, Item{Kind: KindCourse, ID: 3})
	if err == nil {
		t.Fatal("expected error when the enrollment insert fails")
	}
	if errors.Is(err, ErrAlreadyEnrolled) || errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("infrastructure failure should not map to a business error, got %v", err)
	}

	// The debit ran inside the transaction, the rollback must discard it.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeposit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(0))
	mock.ExpectExec(`UPDATE users SET wallet_balance = wallet_balance \+`).
		WithArgs(int64(250), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(int64(7), int64(250), "Wallet top-up").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := store.Deposit(context.Background(), 7, 250, "Wallet top-up"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
}

func TestDepositInvalidAmount(t *testing.T) {
	store, _ := newMockStore(t)

	if err := store.Deposit(context.Background(), 7, 0, "x"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := store.Deposit(context.Background(), 7, -5, "x"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative amount, got %v", err)
	}
}
