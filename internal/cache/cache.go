package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client for read-through caching. It fails safe: a missing
// or unreachable Redis behaves like a permanent cache miss, never an error.
// Only use it for data that can be re-read from the database; credentials go
// through store.RedisStore, which does surface errors.
type Client struct {
	client *redis.Client
}

// New creates a caching client. A nil underlying client (addr unset) is valid
// and disables caching entirely.
func New(client *redis.Client) *Client {
	return &Client{client: client}
}

// GetJSON unmarshals a cached value into out, reporting whether it was found.
func (c *Client) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON stores a value with TTL, ignoring marshal and redis errors.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, payload, ttl).Err()
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, key).Err()
}
