package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	magicLinkKeyPrefix = "magic_link:"
	otpKeyPrefix       = "otp:"
)

// incrementAttemptsScript bumps the attempts counter inside the stored JSON
// payload in one server-side step, preserving the key's TTL. Concurrent
// failed submissions therefore never lose an increment.
var incrementAttemptsScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
	return false
end
local cred = cjson.decode(v)
cred['attempts'] = (cred['attempts'] or 0) + 1
local enc = cjson.encode(cred)
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 then
	redis.call('SET', KEYS[1], enc, 'PX', ttl)
else
	redis.call('SET', KEYS[1], enc)
end
return enc
`)

// RedisStore is a Redis-backed CredentialStore for multi-instance deployments.
// Expiry is delegated to Redis TTLs, so PurgeExpired is a no-op. Consumption
// uses GETDEL and attempt counting a server-side script, so atomicity holds
// across instances. Unlike the listing cache, errors here are surfaced:
// losing a credential silently would turn an outage into a confusing 401.
type RedisStore struct {
	client *redis.Client
}

var _ CredentialStore = (*RedisStore)(nil)

// NewRedisStore creates a credential store on top of an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) PutMagicLink(ctx context.Context, token string, cred MagicLinkCredential) error {
	return s.put(ctx, magicLinkKeyPrefix+token, cred, cred.ExpiresAt)
}

func (s *RedisStore) ConsumeMagicLink(ctx context.Context, token string) (*MagicLinkCredential, error) {
	var cred MagicLinkCredential
	ok, err := s.consume(ctx, magicLinkKeyPrefix+token, &cred)
	if err != nil || !ok {
		return nil, err
	}
	return &cred, nil
}

func (s *RedisStore) PutOTP(ctx context.Context, email string, cred OTPCredential) error {
	return s.put(ctx, otpKeyPrefix+email, cred, cred.ExpiresAt)
}

func (s *RedisStore) GetOTP(ctx context.Context, email string) (*OTPCredential, error) {
	var cred OTPCredential
	ok, err := s.get(ctx, otpKeyPrefix+email, &cred)
	if err != nil || !ok {
		return nil, err
	}
	return &cred, nil
}

func (s *RedisStore) IncrementOTPAttempts(ctx context.Context, email string) (*OTPCredential, error) {
	payload, err := incrementAttemptsScript.Run(ctx, s.client, []string{otpKeyPrefix + email}).Text()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment otp attempts: %w", err)
	}
	var cred OTPCredential
	if err := json.Unmarshal([]byte(payload), &cred); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	return &cred, nil
}

func (s *RedisStore) ConsumeOTP(ctx context.Context, email string) (*OTPCredential, error) {
	var cred OTPCredential
	ok, err := s.consume(ctx, otpKeyPrefix+email, &cred)
	if err != nil || !ok {
		return nil, err
	}
	return &cred, nil
}

func (s *RedisStore) DeleteOTP(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKeyPrefix+email).Err()
}

// PurgeExpired is a no-op: Redis evicts expired keys itself.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) error {
	return nil
}

func (s *RedisStore) put(ctx context.Context, key string, cred interface{}, expiresAt time.Time) error {
	payload, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; storing it would be a zero-TTL error anyway.
		return s.client.Del(ctx, key).Err()
	}
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetch credential: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal credential: %w", err)
	}
	return true, nil
}

// consume removes and returns a credential in one round trip. GETDEL
// guarantees that two racing consumers cannot both see the value.
func (s *RedisStore) consume(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.client.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume credential: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal credential: %w", err)
	}
	return true, nil
}
