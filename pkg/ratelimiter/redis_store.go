package ratelimiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript bumps the counter and sets the window expiry atomically so the
// first request of a window can never leave an immortal key behind.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// RedisStore implements Store on Redis, sharing one window per key across
// all application instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed counter store. Keys are namespaced
// with the prefix to keep them apart from other uses of the same database.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(key string) string {
	return r.prefix + ":" + key
}

func (r *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	res, err := incrScript.Run(ctx, r.client, []string{r.key(key)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	count, ttlMs := res[0], res[1]
	resetAt := time.Now().Add(time.Duration(ttlMs) * time.Millisecond)
	return count, resetAt, nil
}

func (r *RedisStore) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}
