package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"hoodrentals/internal/auth"
	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/mail"
	"hoodrentals/internal/model"
	"hoodrentals/internal/store"
)

const (
	// MagicLinkTTL is how long a magic-link token stays valid.
	MagicLinkTTL = 15 * time.Minute
	// OTPTTL is how long a one-time passcode stays valid.
	OTPTTL = 10 * time.Minute
	// MaxOTPAttempts is the number of failed code submissions allowed
	// before the credential is destroyed.
	MaxOTPAttempts = 5
)

// PasswordlessService issues and verifies magic-link and OTP credentials.
type PasswordlessService interface {
	// IssueMagicLink mints a single-use login token for the email and mails
	// it out. Returns the validity window in seconds.
	IssueMagicLink(ctx context.Context, email string) (int, error)
	// VerifyMagicLink consumes a token and exchanges it for an auth token.
	VerifyMagicLink(ctx context.Context, token string) (*model.User, string, error)
	// IssueOTP mints a 6-digit code for the email, replacing any live one.
	IssueOTP(ctx context.Context, email string) (int, error)
	// VerifyOTP checks a submitted code. On a mismatch the remaining attempt
	// count is returned alongside the error.
	VerifyOTP(ctx context.Context, email, code string) (*model.User, string, int, error)
}

type passwordlessService struct {
	users       UserService
	creds       store.CredentialStore
	jwt         *auth.JWTService
	mailer      mail.Mailer
	mailFrom    string
	frontendURL string
}

// NewPasswordlessService creates a new passwordless authentication service.
func NewPasswordlessService(users UserService, creds store.CredentialStore, jwt *auth.JWTService, mailer mail.Mailer, mailFrom, frontendURL string) PasswordlessService {
	return &passwordlessService{
		users:       users,
		creds:       creds,
		jwt:         jwt,
		mailer:      mailer,
		mailFrom:    mailFrom,
		frontendURL: frontendURL,
	}
}

func (s *passwordlessService) IssueMagicLink(ctx context.Context, email string) (int, error) {
	user, err := s.users.ResolveOrCreate(ctx, email)
	if err != nil {
		return 0, err
	}

	// Amortized cleanup; correctness never depends on it because expiry is
	// re-checked at verification time.
	if err := s.creds.PurgeExpired(ctx, time.Now()); err != nil {
		log.Printf("credential purge failed: %v", err)
	}

	now := time.Now()
	token, err := generateMagicToken(user.ID, now)
	if err != nil {
		return 0, fmt.Errorf("generate magic token: %w", err)
	}

	cred := store.MagicLinkCredential{
		UserID:    user.ID,
		Email:     email,
		ExpiresAt: now.Add(MagicLinkTTL),
	}
	if err := s.creds.PutMagicLink(ctx, token, cred); err != nil {
		return 0, fmt.Errorf("store magic link: %w", err)
	}

	link := fmt.Sprintf("%s/auth/magic-link?token=%s", strings.TrimRight(s.frontendURL, "/"), token)
	msg := mail.Message{
		From:    s.mailFrom,
		To:      email,
		Subject: "Your sign-in link for Hood Car Rentals",
		HTML:    mail.MagicLinkHTML(link, MagicLinkTTL),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The stored credential is unusable without delivery and will expire
		// on its own, so it is left behind.
		return 0, fmt.Errorf("%w: send magic link email: %v", apperrors.ErrExternalService, err)
	}

	return int(MagicLinkTTL.Seconds()), nil
}

func (s *passwordlessService) VerifyMagicLink(ctx context.Context, token string) (*model.User, string, error) {
	token = strings.TrimSpace(token)

	// Atomic removal: of two concurrent verifications of the same token,
	// exactly one receives the credential; the other sees it as unknown.
	cred, err := s.creds.ConsumeMagicLink(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("consume magic link: %w", err)
	}
	if cred == nil {
		return nil, "", apperrors.ErrInvalidOrExpired
	}

	if cred.ExpiresAt.Before(time.Now()) {
		return nil, "", apperrors.ErrExpired
	}

	user, err := s.users.GetUser(ctx, cred.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", apperrors.ErrUserGone
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	authToken, err := s.jwt.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, authToken, nil
}

func (s *passwordlessService) IssueOTP(ctx context.Context, email string) (int, error) {
	user, err := s.users.ResolveOrCreate(ctx, email)
	if err != nil {
		return 0, err
	}

	if err := s.creds.PurgeExpired(ctx, time.Now()); err != nil {
		log.Printf("credential purge failed: %v", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return 0, fmt.Errorf("generate otp code: %w", err)
	}

	// Overwrites any previous OTP for this email, so at most one is live.
	cred := store.OTPCredential{
		Code:      code,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(OTPTTL),
		Attempts:  0,
	}
	if err := s.creds.PutOTP(ctx, email, cred); err != nil {
		return 0, fmt.Errorf("store otp: %w", err)
	}

	msg := mail.Message{
		From:    s.mailFrom,
		To:      email,
		Subject: "Your Hood Car Rentals login code",
		HTML:    mail.OTPHTML(code, OTPTTL),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return 0, fmt.Errorf("%w: send otp email: %v", apperrors.ErrExternalService, err)
	}

	return int(OTPTTL.Seconds()), nil
}

func (s *passwordlessService) VerifyOTP(ctx context.Context, email, code string) (*model.User, string, int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)

	cred, err := s.creds.GetOTP(ctx, email)
	if err != nil {
		return nil, "", 0, fmt.Errorf("fetch otp: %w", err)
	}
	if cred == nil {
		return nil, "", 0, apperrors.ErrInvalidOrExpired
	}

	if cred.ExpiresAt.Before(time.Now()) {
		if err := s.creds.DeleteOTP(ctx, email); err != nil {
			log.Printf("delete expired otp: %v", err)
		}
		return nil, "", 0, apperrors.ErrExpired
	}

	if cred.Attempts >= MaxOTPAttempts {
		if err := s.creds.DeleteOTP(ctx, email); err != nil {
			log.Printf("delete exhausted otp: %v", err)
		}
		return nil, "", 0, apperrors.ErrTooManyAttempts
	}

	if cred.Code != code {
		// Atomic increment so concurrent failed submissions never lose a
		// count toward the limit.
		updated, err := s.creds.IncrementOTPAttempts(ctx, email)
		if err != nil {
			return nil, "", 0, fmt.Errorf("record failed attempt: %w", err)
		}
		if updated == nil {
			return nil, "", 0, apperrors.ErrInvalidOrExpired
		}
		remaining := MaxOTPAttempts - updated.Attempts
		if remaining < 0 {
			remaining = 0
		}
		return nil, "", remaining, apperrors.ErrInvalidCode
	}

	// Atomic removal: only one of any concurrent correct submissions gets
	// the credential.
	consumed, err := s.creds.ConsumeOTP(ctx, email)
	if err != nil {
		return nil, "", 0, fmt.Errorf("consume otp: %w", err)
	}
	if consumed == nil || consumed.Code != code {
		return nil, "", 0, apperrors.ErrInvalidOrExpired
	}

	user, err := s.users.GetUser(ctx, consumed.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", 0, apperrors.ErrUserGone
		}
		return nil, "", 0, fmt.Errorf("load user: %w", err)
	}

	authToken, err := s.jwt.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", 0, fmt.Errorf("generate token: %w", err)
	}
	return user, authToken, 0, nil
}

// generateMagicToken builds an opaque URL-safe token from crypto-sourced
// randomness mixed with the user id and issue time.
func generateMagicToken(userID uint, issuedAt time.Time) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	seed := fmt.Sprintf("%d:%d:%x", userID, issuedAt.UnixNano(), buf)
	return base64.RawURLEncoding.EncodeToString([]byte(seed)), nil
}

// generateOTPCode returns a uniform 6-digit decimal code, leading zeros
// allowed.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
