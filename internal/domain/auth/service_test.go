package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medplus/academy-api/internal/domain/user"
	"github.com/medplus/academy-api/internal/pkg/jwt"
	"github.com/medplus/academy-api/internal/pkg/password"
)

type fakeUserRepo struct {
	users    map[int64]*user.User
	sessions map[int64][]*user.Session
	nextID   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[int64]*user.User),
		sessions: make(map[int64][]*user.Session),
		nextID:   1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmailOrPhone(ctx context.Context, email, phone string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Phone == phone {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*user.User, error) {
	users := make([]*user.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) UpdateEmailVerified(ctx context.Context, id int64, verified bool) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.EmailVerified = verified
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id int64, role user.Role) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id int64, status user.Status) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) ListSessions(ctx context.Context, userID int64) ([]*user.Session, error) {
	return f.sessions[userID], nil
}

func (f *fakeUserRepo) AddSession(ctx context.Context, userID int64, deviceToken string) error {
	f.sessions[userID] = append(f.sessions[userID], &user.Session{
		UserID:      userID,
		DeviceToken: deviceToken,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (f *fakeUserRepo) DeleteSessions(ctx context.Context, userID int64) error {
	delete(f.sessions, userID)
	return nil
}

type fakeSpecialties struct {
	known map[int64]bool
}

func (f *fakeSpecialties) Exists(ctx context.Context, id int64) (bool, error) {
	return f.known[id], nil
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtService := jwt.NewService("test-secret", time.Hour, 24*time.Hour)
	specialties := &fakeSpecialties{known: map[int64]bool{1: true}}
	return NewService(repo, jwtService, nil, nil, specialties, 2)
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, plainPassword string) *user.User {
	t.Helper()

	hash, err := password.Hash(plainPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	u := &user.User{
		Name:         "Test User",
		Email:        email,
		Phone:        "+77001234567",
		SpecialtyID:  1,
		PasswordHash: hash,
		Role:         user.RoleUser,
		Status:       user.StatusActive,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Name:        "New User",
		Email:       "New@Example.com",
		Phone:       "+77007654321",
		Password:    "secret-password",
		SpecialtyID: 1,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.User.Email != "new@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}
	if resp.VerificationSent {
		t.Error("verification reported sent without a verification service")
	}
	if len(repo.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(repo.users))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seedUser(t, repo, "taken@example.com", "password1")

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:        "Other",
		Email:       "taken@example.com",
		Phone:       "+77009999999",
		Password:    "password2",
		SpecialtyID: 1,
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterUnknownSpecialty(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name:        "New User",
		Email:       "new@example.com",
		Phone:       "+77007654321",
		Password:    "secret-password",
		SpecialtyID: 42,
	})
	if !errors.Is(err, ErrSpecialtyNotFound) {
		t.Fatalf("expected ErrSpecialtyNotFound, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "login@example.com", "correct-password")

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:       "Login@Example.com",
		Password:    "correct-password",
		DeviceToken: "device-a",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if resp.Tokens.TokenType != "Bearer" {
		t.Errorf("token type = %q", resp.Tokens.TokenType)
	}
	if len(repo.sessions[u.ID]) != 1 {
		t.Errorf("expected 1 session, got %d", len(repo.sessions[u.ID]))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	seedUser(t, repo, "login@example.com", "correct-password")

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:       "login@example.com",
		Password:    "wrong-password",
		DeviceToken: "device-a",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:       "nobody@example.com",
		Password:    "whatever1",
		DeviceToken: "device-a",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginBanned(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "banned@example.com", "correct-password")
	u.Status = user.StatusBanned

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:       "banned@example.com",
		Password:    "correct-password",
		DeviceToken: "device-a",
	})
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestLoginDeviceLimit(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "login@example.com", "correct-password")

	repo.AddSession(context.Background(), u.ID, "device-a")
	repo.AddSession(context.Background(), u.ID, "device-b")

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:       "login@example.com",
		Password:    "correct-password",
		DeviceToken: "device-c",
	})
	if !errors.Is(err, ErrDeviceLimitReached) {
		t.Fatalf("expected ErrDeviceLimitReached, got %v", err)
	}
}

func TestLoginKnownDeviceAtCap(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "login@example.com", "correct-password")

	repo.AddSession(context.Background(), u.ID, "device-a")
	repo.AddSession(context.Background(), u.ID, "device-b")

	// A device already on the list is never turned away
	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:       "login@example.com",
		Password:    "correct-password",
		DeviceToken: "device-b",
	})
	if err != nil {
		t.Fatalf("known device rejected: %v", err)
	}
	if len(repo.sessions[u.ID]) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(repo.sessions[u.ID]))
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "login@example.com", "correct-password")

	err := svc.ChangePassword(context.Background(), u.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "next-password",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "login@example.com", "correct-password")

	err := svc.ChangePassword(context.Background(), u.ID, &ChangePasswordRequest{
		CurrentPassword: "correct-password",
		NewPassword:     "next-password",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	if !password.Verify("next-password", repo.users[u.ID].PasswordHash) {
		t.Error("new password does not verify")
	}
}

func TestDeleteAccountRemovesSessions(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	u := seedUser(t, repo, "login@example.com", "correct-password")
	repo.AddSession(context.Background(), u.ID, "device-a")

	if err := svc.DeleteAccount(context.Background(), u.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, ok := repo.users[u.ID]; ok {
		t.Error("user still present after delete")
	}
	if len(repo.sessions[u.ID]) != 0 {
		t.Error("sessions still present after delete")
	}
}
