package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Derakings/Goalsaver/internal/domain"
	"github.com/Derakings/Goalsaver/internal/email"
	"github.com/Derakings/Goalsaver/internal/repository"
)

// AuthService coordinates registration, login, verification and profile
// flows, and enforces the unverified -> verified account lifecycle.
type AuthService struct {
	logger        *zap.Logger
	users         repository.UserRepository
	notifications repository.NotificationRepository
	otp           *OTPService
	sender        email.Sender

	dispatch func(func())
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, notifications repository.NotificationRepository, otp *OTPService, sender email.Sender) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		logger:        logger,
		users:         users,
		notifications: notifications,
		otp:           otp,
		sender:        sender,
		dispatch:      func(fn func()) { go fn() },
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// RegisterResult is the registration response payload. No session token is
// issued until the email is verified.
type RegisterResult struct {
	User                 domain.PublicUser `json:"user"`
	RequiresVerification bool              `json:"requiresVerification"`
}

// Register creates an unverified account, issues a verification code, and
// fires a welcome email without awaiting delivery.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	emailAddr := strings.TrimSpace(input.Email)

	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return RegisterResult{}, ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return RegisterResult{}, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint is the final authority against a concurrent
		// registration that won the race after our lookup.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return RegisterResult{}, ErrDuplicateEmail
		}
		return RegisterResult{}, err
	}

	if _, err := s.otp.Issue(ctx, user.ID, user.Email, domain.OTPPurposeVerification); err != nil {
		return RegisterResult{}, err
	}

	s.sendEmail(email.WelcomeMessage(user.Email, user.FirstName))

	return RegisterResult{User: user.Public(), RequiresVerification: true}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password return the same error to resist account enumeration. An
// unverified account is rejected with the data needed to route into the
// verification flow. Side effects (login notification row, email) never
// affect the success path.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = strings.TrimSpace(emailAddr)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return domain.User{}, &VerificationRequiredError{UserID: user.ID, Email: user.Email}
	}

	loginTime := time.Now().UTC().Format(time.RFC1123)
	s.recordLoginNotification(ctx, user, loginTime)
	s.sendEmail(email.NewLoginMessage(user.Email, user.FirstName, "Web Browser", loginTime))

	return user, nil
}

// GetProfile returns the profile projection for the user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, err
	}
	return user.ProfileView(), nil
}

// UpdateProfile applies a partial update of the mutable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.Profile, error) {
	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, err
	}
	return user.ProfileView(), nil
}

// VerifyOTP consumes a verification code for the user.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, code string) error {
	return s.otp.Verify(ctx, userID, code, domain.OTPPurposeVerification)
}

// ResendOTP invalidates outstanding verification codes and issues a new one.
func (s *AuthService) ResendOTP(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	_, err = s.otp.Resend(ctx, user.ID, user.Email, domain.OTPPurposeVerification)
	return err
}

// ForgotPassword issues a password reset code when the account exists. The
// response is identical either way so the endpoint cannot be used to probe
// for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	_, err = s.otp.Resend(ctx, user.ID, user.Email, domain.OTPPurposePasswordReset)
	return err
}

// ResetPassword consumes a password reset code and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, userID, code, newPassword string) error {
	if err := s.otp.Verify(ctx, userID, code, domain.OTPPurposePasswordReset); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// CompleteTutorial marks the onboarding tutorial as done. Idempotent.
func (s *AuthService) CompleteTutorial(ctx context.Context, userID string) error {
	if err := s.users.CompleteTutorial(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// recordLoginNotification persists a NEW_LOGIN row. Failures are logged and
// do not fail the login.
func (s *AuthService) recordLoginNotification(ctx context.Context, user domain.User, loginTime string) {
	if s.notifications == nil {
		return
	}
	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      domain.NotificationNewLogin,
		Title:     "New Login Detected",
		Message:   "A new login was detected on your account at " + loginTime,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("login notification persist failed", zap.Error(err), zap.String("user_id", user.ID))
	}
}

func (s *AuthService) sendEmail(msg email.Message) {
	if s.sender == nil {
		return
	}
	s.dispatch(func() {
		if err := s.sender.Send(context.Background(), msg); err != nil {
			s.logger.Warn("email send failed", zap.Error(err), zap.String("to", msg.To))
		}
	})
}
