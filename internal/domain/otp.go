package domain

import "time"

// OTPPurpose is a closed enum of the flows a one-time code can belong to.
type OTPPurpose string

const (
	OTPPurposeVerification  OTPPurpose = "VERIFICATION"
	OTPPurposePasswordReset OTPPurpose = "PASSWORD_RESET"
)

// Valid reports whether the purpose is one of the known variants.
func (p OTPPurpose) Valid() bool {
	switch p {
	case OTPPurposeVerification, OTPPurposePasswordReset:
		return true
	}
	return false
}

// OTPRecord is one issued one-time code. Several records may exist per
// (user, purpose) over time; only the newest unused, unexpired one is valid.
type OTPRecord struct {
	ID        string
	UserID    string
	Code      string
	Purpose   OTPPurpose
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the record is still usable at the given instant.
func (r OTPRecord) Active(now time.Time) bool {
	return !r.Used && now.Before(r.ExpiresAt)
}
