package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var Client *redis.Client

// Init connects the shared Redis client. The cache is best-effort: callers
// must behave correctly when Redis is down.
func Init(addr, password string, db int) {
	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := Client.Ping(context.Background()).Err(); err != nil {
		logrus.Warnf("redis unavailable, caching disabled: %v", err)
	}
}

// Get retrieves a cached value into dest. Returns false when the key is
// absent or Redis is unreachable.
func Get(ctx context.Context, key string, dest any) bool {
	if Client == nil {
		return false
	}
	val, err := Client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a value with a TTL, best-effort.
func Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if Client == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = Client.Set(ctx, key, b, ttl).Err()
}

// Del drops keys, best-effort. Used to invalidate after mutations.
func Del(ctx context.Context, keys ...string) {
	if Client == nil || len(keys) == 0 {
		return
	}
	_ = Client.Del(ctx, keys...).Err()
}

// WalletKey is the cache key for a user's wallet summary.
func WalletKey(userID string) string { return "wallet:user:" + userID }

// CourseListKey caches the published course listing.
const CourseListKey = "courses:published"
