package service

import "errors"

// Domain errors raised at the point of detection and mapped to HTTP statuses
// at the boundary.
var (
	ErrDuplicateEmail       = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired OTP")
	ErrAlreadyVerified      = errors.New("email already verified")
	ErrUserNotFound         = errors.New("user not found")
	ErrRateLimited          = errors.New("too many requests")
)

// VerificationRequiredError rejects a login for an unverified account. It
// carries enough data for the client to route into the verification flow
// without a second lookup.
type VerificationRequiredError struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (e *VerificationRequiredError) Error() string {
	return "please verify your email before logging in"
}
