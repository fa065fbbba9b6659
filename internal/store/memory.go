package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory CredentialStore for single-instance
// deployments and tests. Contents are lost on restart, which is acceptable for
// credentials this short-lived.
type MemoryStore struct {
	mu         sync.Mutex
	magicLinks map[string]MagicLinkCredential
	otps       map[string]OTPCredential
}

var _ CredentialStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		magicLinks: make(map[string]MagicLinkCredential),
		otps:       make(map[string]OTPCredential),
	}
}

func (s *MemoryStore) PutMagicLink(_ context.Context, token string, cred MagicLinkCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.magicLinks[token] = cred
	return nil
}

// ConsumeMagicLink removes and returns the credential under the lock, so only
// one of any number of concurrent callers receives it.
func (s *MemoryStore) ConsumeMagicLink(_ context.Context, token string) (*MagicLinkCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.magicLinks[token]
	if !ok {
		return nil, nil
	}
	delete(s.magicLinks, token)
	return &cred, nil
}

func (s *MemoryStore) PutOTP(_ context.Context, email string, cred OTPCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[email] = cred
	return nil
}

func (s *MemoryStore) GetOTP(_ context.Context, email string) (*OTPCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.otps[email]
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (s *MemoryStore) IncrementOTPAttempts(_ context.Context, email string) (*OTPCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.otps[email]
	if !ok {
		return nil, nil
	}
	cred.Attempts++
	s.otps[email] = cred
	return &cred, nil
}

func (s *MemoryStore) ConsumeOTP(_ context.Context, email string) (*OTPCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.otps[email]
	if !ok {
		return nil, nil
	}
	delete(s.otps, email)
	return &cred, nil
}

func (s *MemoryStore) DeleteOTP(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.otps, email)
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, cred := range s.magicLinks {
		if cred.ExpiresAt.Before(now) {
			delete(s.magicLinks, token)
		}
	}
	for email, cred := range s.otps {
		if cred.ExpiresAt.Before(now) {
			delete(s.otps, email)
		}
	}
	return nil
}
