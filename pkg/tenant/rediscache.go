package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache shares validated tenant records between instances, so a
// tenant validated on one node does not hit the registry again on the
// next.
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Cache backed by the given Redis client. All
// keys are namespaced under the prefix, which defaults to "tenant:".
func NewRedisCache(client *redis.Client, prefix string) Cache {
	if prefix == "" {
		prefix = "tenant:"
	}
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		// Both redis.Nil and transport errors degrade to a registry
		// lookup; a cache miss is never fatal.
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(payload, &t); err != nil {
		c.client.Del(ctx, c.prefix+key)
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, t *Tenant, ttl time.Duration) {
	if t == nil || ttl <= 0 {
		return
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.prefix+key, payload, ttl)
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, c.prefix+key)
}

func (c *redisCache) Close() error {
	// The client is shared and owned by the caller.
	return nil
}
