package store

import (
	"context"
	"time"
)

// MagicLinkCredential is a pending single-use login token.
type MagicLinkCredential struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPCredential is a pending one-time passcode, keyed by normalized email.
// At most one lives per email; issuing a new one overwrites the previous.
type OTPCredential struct {
	Code      string    `json:"code"`
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// CredentialStore holds pending magic-link and OTP credentials.
//
// Consumption is atomic: of any number of concurrent Consume calls for the
// same entry, exactly one receives it. Expiry is always checked against the
// stored ExpiresAt, so a stale entry that outlives its window is still
// rejected. PurgeExpired is an amortized sweep invoked on issuance, not a
// hard memory bound.
//
// The in-memory variant is process-local: issuance and verification must land
// on the same instance. Multi-instance deployments use the Redis variant.
type CredentialStore interface {
	PutMagicLink(ctx context.Context, token string, cred MagicLinkCredential) error
	// ConsumeMagicLink atomically removes and returns the credential for the
	// token, or nil without error when it is unknown.
	ConsumeMagicLink(ctx context.Context, token string) (*MagicLinkCredential, error)

	// PutOTP overwrites any live OTP for the email.
	PutOTP(ctx context.Context, email string, cred OTPCredential) error
	// GetOTP returns nil without error when no OTP is pending for the email.
	GetOTP(ctx context.Context, email string) (*OTPCredential, error)
	// IncrementOTPAttempts atomically bumps the failed-attempt counter,
	// returning the updated credential or nil when none is pending.
	IncrementOTPAttempts(ctx context.Context, email string) (*OTPCredential, error)
	// ConsumeOTP atomically removes and returns the pending OTP, or nil
	// without error when none is pending.
	ConsumeOTP(ctx context.Context, email string) (*OTPCredential, error)
	DeleteOTP(ctx context.Context, email string) error

	PurgeExpired(ctx context.Context, now time.Time) error
}
