package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/medplus/academy-api/internal/domain/user"
	"github.com/medplus/academy-api/internal/pkg/jwt"
	"github.com/medplus/academy-api/internal/pkg/password"
)

// SpecialtyChecker validates specialty references during registration
type SpecialtyChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles authentication business logic
type Service struct {
	userRepo     user.Repository
	jwtService   *jwt.Service
	redis        *redis.Client // nil if Redis disabled
	verification *VerificationService
	specialties  SpecialtyChecker
	maxDevices   int
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, redis *redis.Client, verification *VerificationService, specialties SpecialtyChecker, maxDevices int) *Service {
	if maxDevices < 1 {
		maxDevices = 2
	}
	return &Service{
		userRepo:     userRepo,
		jwtService:   jwtService,
		redis:        redis,
		verification: verification,
		specialties:  specialties,
		maxDevices:   maxDevices,
	}
}

// Register creates new user account and sends the verification code
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	req.Email = normalizeEmail(req.Email)

	existing, _ := s.userRepo.GetByEmailOrPhone(ctx, req.Email, req.Phone)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	ok, err := s.specialties.Exists(ctx, req.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSpecialtyNotFound
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		SpecialtyID:  req.SpecialtyID,
		PasswordHash: hash,
		Role:         user.RoleUser,
		Status:       user.StatusActive,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if err == user.ErrEmailAlreadyExists {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	verificationSent := false
	if s.verification != nil {
		if err := s.verification.SendVerificationEmail(ctx, u.ID, u.Email, u.Name); err == nil {
			verificationSent = true
		}
	}

	return &RegisterResponse{
		User:             NewUserResponse(u),
		VerificationSent: verificationSent,
	}, nil
}

// Login authenticates a user on a specific device
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive() {
		return nil, ErrUserBanned
	}

	if err := s.registerDevice(ctx, u.ID, req.DeviceToken); err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, u)
}

// registerDevice enforces the per-user device cap. A device already on
// the list logs in freely, a new device past the cap is rejected.
func (s *Service) registerDevice(ctx context.Context, userID int64, deviceToken string) error {
	sessions, err := s.userRepo.ListSessions(ctx, userID)
	if err != nil {
		return err
	}

	for _, sess := range sessions {
		if sess.DeviceToken == deviceToken {
			return nil
		}
	}

	if len(sessions) >= s.maxDevices {
		return ErrDeviceLimitReached
	}

	return s.userRepo.AddSession(ctx, userID, deviceToken)
}

// Verify confirms the 6-digit email verification code
func (s *Service) Verify(ctx context.Context, email, code string) error {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if u.EmailVerified {
		return nil
	}

	ok, err := s.verification.VerifyEmail(ctx, u.ID, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	if err := s.userRepo.UpdateEmailVerified(ctx, u.ID, true); err != nil {
		return err
	}

	s.verification.SendWelcomeEmail(u.Email, u.Name)
	return nil
}

// ForgotPassword starts the reset flow. Silently succeeds for unknown
// emails so the endpoint does not leak which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil
	}
	return s.verification.SendPasswordResetEmail(ctx, u.ID, u.Email, u.Name)
}

// ResetPassword completes the reset flow and revokes all sessions
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.verification.ValidateResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.verification.InvalidateResetToken(ctx, token)
	_ = s.userRepo.DeleteSessions(ctx, userID)
	return nil
}

// Refresh rotates the refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.getRefreshToken(ctx, refreshHash)
	if err != nil || userID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsActive() {
		return nil, ErrUserBanned
	}

	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout invalidates the refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.deleteRefreshToken(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	resp := NewUserResponse(u)
	return &resp, nil
}

// UpdateProfile updates name, phone and specialty
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	ok, err := s.specialties.Exists(ctx, req.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSpecialtyNotFound
	}

	u.Name = req.Name
	u.Phone = req.Phone
	u.SpecialtyID = req.SpecialtyID
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return s.GetCurrentUser(ctx, userID)
}

// ChangePassword verifies the current password before replacing it
func (s *Service) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}

	if !password.Verify(req.CurrentPassword, u.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// DeleteAccount removes the user and their sessions
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	_ = s.userRepo.DeleteSessions(ctx, userID)
	return s.userRepo.Delete(ctx, userID)
}

// generateTokens creates the access/refresh pair and stores the refresh
// token hash in Redis for rotation.
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.storeRefreshToken(ctx, refreshHash, u.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, userID int64) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, strconv.FormatInt(userID, 10), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, tokenHash string) (int64, error) {
	if s.redis == nil {
		return 0, ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+tokenHash).Result()
	if err != nil {
		return 0, ErrInvalidRefreshToken
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
