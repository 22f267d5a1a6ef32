package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/medplus/academy-api/internal/domain/user"
)

type fakeUserGetter struct {
	user *user.User
	err  error
}

func (f *fakeUserGetter) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return f.user, f.err
}

type fakeMailer struct {
	to       string
	toName   string
	template string
	subject  string
	data     map[string]interface{}
	calls    int
}

func (f *fakeMailer) Queue(to, toName, templateName, subject string, data interface{}) {
	f.to = to
	f.toName = toName
	f.template = templateName
	f.subject = subject
	f.data, _ = data.(map[string]interface{})
	f.calls++
}

func TestReceiptSend(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT title, price FROM courses").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "price"}).AddRow("Anatomy 101", 100))

	getter := &fakeUserGetter{user: &user.User{
		ID:            7,
		Name:          "Aida",
		Email:         "aida@example.com",
		WalletBalance: 400,
	}}
	mailer := &fakeMailer{}

	NewReceipts(store, getter, mailer).Send(context.Background(), 7, Item{Kind: KindCourse, ID: 3})

	if mailer.calls != 1 {
		t.Fatalf("mailer calls = %d, want 1", mailer.calls)
	}
	if mailer.to != "aida@example.com" || mailer.toName != "Aida" {
		t.Errorf("receipt addressed to %q (%q)", mailer.to, mailer.toName)
	}
	if mailer.template != "purchase_receipt" {
		t.Errorf("template = %q, want purchase_receipt", mailer.template)
	}
	if mailer.data["ItemTitle"] != "Anatomy 101" {
		t.Errorf("ItemTitle = %v", mailer.data["ItemTitle"])
	}
	if mailer.data["Amount"] != int64(100) {
		t.Errorf("Amount = %v", mailer.data["Amount"])
	}
	if mailer.data["Balance"] != int64(400) {
		t.Errorf("Balance = %v", mailer.data["Balance"])
	}
}

func TestReceiptSendUnknownBuyer(t *testing.T) {
	store, _ := newMockStore(t)

	getter := &fakeUserGetter{err: user.ErrUserNotFound}
	mailer := &fakeMailer{}

	NewReceipts(store, getter, mailer).Send(context.Background(), 404, Item{Kind: KindCourse, ID: 3})

	if mailer.calls != 0 {
		t.Errorf("mailer called %d times for unknown buyer", mailer.calls)
	}
}

type recordingReceipts struct {
	userID int64
	item   Item
	calls  int
}

func (r *recordingReceipts) Send(ctx context.Context, userID int64, item Item) {
	r.userID = userID
	r.item = item
	r.calls++
}

func TestEnrollNotifiesReceipts(t *testing.T) {
	store, mock := newMockStore(t)
	receipts := &recordingReceipts{}
	svc := NewService(store, receipts)

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
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := svc.Enroll(context.Background(), 7, Item{Kind: KindCourse, ID: 3}); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if receipts.calls != 1 {
		t.Fatalf("receipt hook calls = %d, want 1", receipts.calls)
	}
	if receipts.userID != 7 || receipts.item.ID != 3 || receipts.item.Kind != KindCourse {
		t.Errorf("receipt hook got (%d, %+v)", receipts.userID, receipts.item)
	}
}

func TestEnrollSkipsReceiptOnFailure(t *testing.T) {
	store, mock := newMockStore(t)
	receipts := &recordingReceipts{}
	svc := NewService(store, receipts)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM user_courses").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT price, title FROM courses").
		WillReturnRows(sqlmock.NewRows([]string{"price", "title"}).AddRow(100, "Anatomy 101"))
	mock.ExpectQuery("SELECT wallet_balance FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(99))
	mock.ExpectRollback()

	err := svc.Enroll(context.Background(), 7, Item{Kind: KindCourse, ID: 3})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if receipts.calls != 0 {
		t.Errorf("receipt hook fired %d times on a rejected purchase", receipts.calls)
	}
}
