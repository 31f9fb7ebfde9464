package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Derakings/Goalsaver/internal/domain"
	"github.com/Derakings/Goalsaver/internal/email"
	"github.com/Derakings/Goalsaver/internal/repository"
)

const otpTTL = 5 * time.Minute

// OTPService owns the lifecycle of one-time codes: issue, verify, resend
// invalidation, and expiry sweeps.
type OTPService struct {
	logger  *zap.Logger
	otps    repository.OTPRepository
	users   repository.UserRepository
	sender  email.Sender
	limiter RateLimiter

	now      func() time.Time
	dispatch func(func())
}

func NewOTPService(logger *zap.Logger, otps repository.OTPRepository, users repository.UserRepository, sender email.Sender, limiter RateLimiter) *OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryRateLimiter(otpTTL, 3)
	}
	return &OTPService{
		logger:   logger,
		otps:     otps,
		users:    users,
		sender:   sender,
		limiter:  limiter,
		now:      func() time.Time { return time.Now().UTC() },
		dispatch: func(fn func()) { go fn() },
	}
}

// GenerateCode produces a uniform six digit code from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue creates and persists a fresh code for (userID, purpose) and sends it
// by email without awaiting delivery. It does not touch prior records.
func (s *OTPService) Issue(ctx context.Context, userID, emailAddr string, purpose domain.OTPPurpose) (time.Time, error) {
	if !purpose.Valid() {
		return time.Time{}, fmt.Errorf("unknown otp purpose %q", purpose)
	}

	code, err := GenerateCode()
	if err != nil {
		return time.Time{}, err
	}

	now := s.now()
	record := domain.OTPRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		Used:      false,
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	}
	if err := s.otps.Create(ctx, record); err != nil {
		return time.Time{}, err
	}

	s.sendCode(emailAddr, code, purpose, record.ExpiresAt)
	return record.ExpiresAt, nil
}

// Verify consumes the newest active code matching (userID, code, purpose).
// Exactly one of any set of concurrent callers succeeds; everyone else gets
// ErrInvalidOrExpiredCode. A VERIFICATION success flips the user's verified
// flag, the only transition out of the unverified state.
func (s *OTPService) Verify(ctx context.Context, userID, code string, purpose domain.OTPPurpose) error {
	code = strings.TrimSpace(code)
	if !isValidCode(code) {
		return ErrInvalidOrExpiredCode
	}

	ok, err := s.otps.ConsumeLatest(ctx, userID, code, purpose, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredCode
	}

	if purpose == domain.OTPPurposeVerification {
		if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// Resend invalidates every outstanding code for (userID, purpose) and issues
// a new one, leaving at most one active code behind.
func (s *OTPService) Resend(ctx context.Context, userID, emailAddr string, purpose domain.OTPPurpose) (time.Time, error) {
	if s.limiter != nil && !s.limiter.Allow(userID+":"+string(purpose)) {
		return time.Time{}, ErrRateLimited
	}
	if err := s.otps.InvalidateActive(ctx, userID, purpose); err != nil {
		return time.Time{}, err
	}
	return s.Issue(ctx, userID, emailAddr, purpose)
}

// Sweep deletes every expired record regardless of its used flag. Idempotent;
// run periodically by the maintenance scheduler.
func (s *OTPService) Sweep(ctx context.Context) error {
	deleted, err := s.otps.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("expired otps swept", zap.Int64("deleted", deleted))
	}
	return nil
}

func (s *OTPService) sendCode(to, code string, purpose domain.OTPPurpose, expiresAt time.Time) {
	if s.sender == nil || to == "" {
		return
	}
	var msg email.Message
	if purpose == domain.OTPPurposePasswordReset {
		msg = email.PasswordResetMessage(to, code, expiresAt)
	} else {
		msg = email.VerificationCodeMessage(to, code, expiresAt)
	}
	s.dispatch(func() {
		if err := s.sender.Send(context.Background(), msg); err != nil {
			s.logger.Warn("otp email send failed", zap.Error(err), zap.String("to", to))
		}
	})
}

func isValidCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
