package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Mailer queues outbound mail for delivery
type Mailer interface {
	Queue(to, toName, templateName, subject string, data interface{})
}

// Verification code settings
const (
	VerificationCodeLength = 6
	VerificationCodeTTL    = 15 * time.Minute
	ResetTokenTTL          = 1 * time.Hour
)

// Redis key prefixes
const (
	keyPrefixVerification = "verify:"
	keyPrefixReset        = "reset:"
)

// VerificationService handles email verification codes and password reset
// tokens. Codes live in Redis with a TTL and are deleted on first use.
type VerificationService struct {
	redis        *redis.Client
	emailService Mailer
	baseURL      string
}

// NewVerificationService creates verification service
func NewVerificationService(redis *redis.Client, emailService Mailer, baseURL string) *VerificationService {
	return &VerificationService{
		redis:        redis,
		emailService: emailService,
		baseURL:      baseURL,
	}
}

// SendVerificationEmail generates a 6-digit code and mails it
func (s *VerificationService) SendVerificationEmail(ctx context.Context, userID int64, to, name string) error {
	code := generateNumericCode(VerificationCodeLength)

	key := keyPrefixVerification + strconv.FormatInt(userID, 10)
	if err := s.redis.Set(ctx, key, code, VerificationCodeTTL).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	s.emailService.Queue(to, name, "verification", "Verify your email", map[string]string{
		"UserName": name,
		"Code":     code,
	})
	return nil
}

// VerifyEmail checks the code and consumes it on success
func (s *VerificationService) VerifyEmail(ctx context.Context, userID int64, code string) (bool, error) {
	key := keyPrefixVerification + strconv.FormatInt(userID, 10)

	storedCode, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if storedCode != code {
		return false, nil
	}

	s.redis.Del(ctx, key)
	return true, nil
}

// SendWelcomeEmail mails the post-verification welcome message
func (s *VerificationService) SendWelcomeEmail(to, name string) {
	s.emailService.Queue(to, name, "welcome", "Welcome to Med A+ Academy", map[string]string{
		"UserName": name,
	})
}

// SendPasswordResetEmail generates a reset token and mails the reset link
func (s *VerificationService) SendPasswordResetEmail(ctx context.Context, userID int64, to, name string) error {
	token, err := generateSecureToken(32)
	if err != nil {
		return err
	}

	key := keyPrefixReset + token
	if err := s.redis.Set(ctx, key, strconv.FormatInt(userID, 10), ResetTokenTTL).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	s.emailService.Queue(to, name, "password_reset", "Reset your password", map[string]string{
		"UserName": name,
		"ResetURL": resetURL,
	})
	return nil
}

// ValidateResetToken returns the user ID the token was issued for
func (s *VerificationService) ValidateResetToken(ctx context.Context, token string) (int64, error) {
	key := keyPrefixReset + token

	userIDStr, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, ErrInvalidResetToken
	}
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(userIDStr, 10, 64)
}

// InvalidateResetToken removes a reset token after use
func (s *VerificationService) InvalidateResetToken(ctx context.Context, token string) {
	s.redis.Del(ctx, keyPrefixReset+token)
}

func generateNumericCode(length int) string {
	const digits = "0123456789"
	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b)
}

func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
