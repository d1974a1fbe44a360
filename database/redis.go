package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"splitledger-backend/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is a thin Redis wrapper for read-side caching of friend balance
// lists. A nil *Cache (or a Cache whose Redis was unreachable at startup)
// is valid and turns every operation into a no-op, so the service runs
// fine without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectRedis dials Redis; on failure it logs and returns a no-op cache.
func ConnectRedis(cfg *config.Config) *Cache {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Warn("invalid redis url, running without cache", "err", err)
		return &Cache{ttl: cfg.FriendCacheTTL}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("redis not available, running without cache", "err", err)
		return &Cache{ttl: cfg.FriendCacheTTL}
	}

	slog.Info("redis connected")
	return &Cache{client: client, ttl: cfg.FriendCacheTTL}
}

func friendKey(userID uuid.UUID) string {
	return fmt.Sprintf("friends:%s", userID)
}

// GetFriendBalances returns the cached payload for the user, unmarshalled
// into dest. The second return reports a cache hit.
func (c *Cache) GetFriendBalances(ctx context.Context, userID uuid.UUID, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, friendKey(userID)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("corrupt cache entry dropped", "key", friendKey(userID), "err", err)
		c.client.Del(ctx, friendKey(userID))
		return false
	}
	return true
}

// SetFriendBalances stores the payload for the user with the configured TTL.
func (c *Cache) SetFriendBalances(ctx context.Context, userID uuid.UUID, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, friendKey(userID), raw, c.ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", friendKey(userID), "err", err)
	}
}

// InvalidateFriendBalances drops the cached lists for every given user.
// Called after any ledger mutation that touches their balances.
func (c *Cache) InvalidateFriendBalances(ctx context.Context, userIDs ...uuid.UUID) {
	if c == nil || c.client == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, friendKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "err", err)
	}
}
