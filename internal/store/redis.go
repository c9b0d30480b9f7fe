// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/avelikov/guildbot/internal/contest"
)

// RedisGateway implements contest.Gateway over a Redis key-value store.
// Each chat's lottery state and settings live under one JSON value, saved
// at phase boundaries and loaded on first access after a restart.
type RedisGateway struct {
	rdb *redis.Client
}

// ConnectRedis initializes a gateway from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis(ctx context.Context) (*RedisGateway, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisGateway{rdb: rdb}, nil
}

// NewRedisGateway wraps an existing client, used by tests with miniature
// or mock servers.
func NewRedisGateway(rdb *redis.Client) *RedisGateway {
	return &RedisGateway{rdb: rdb}
}

func chatKey(chatID int64) string {
	return fmt.Sprintf("guildbot:chat:%d", chatID)
}

// LoadChat fetches and unmarshals a chat snapshot. A missing key yields
// (nil, nil).
func (g *RedisGateway) LoadChat(ctx context.Context, chatID int64) (*contest.Snapshot, error) {
	data, err := g.rdb.Get(ctx, chatKey(chatID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat %d: %w", chatID, err)
	}
	var snap contest.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode chat %d snapshot: %w", chatID, err)
	}
	return &snap, nil
}

// SaveChat marshals and stores a chat snapshot.
func (g *RedisGateway) SaveChat(ctx context.Context, chatID int64, snap *contest.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal chat %d snapshot: %w", chatID, err)
	}
	if err := g.rdb.Set(ctx, chatKey(chatID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save chat %d: %w", chatID, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
