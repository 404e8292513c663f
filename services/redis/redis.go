package redis

import (
	redis_models "cothread/models/redis"
	redis_utils "cothread/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChatBacklog is how much chat history the cache keeps per game. A backlog
// at this length may have been trimmed and is not authoritative.
const ChatBacklog = 100

// RedisClient handles Redis operations
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) *RedisClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}
}

// SaveGameSnapshot stores the polled game-state read model
// Key format: "game:{id}:snapshot"
func (rc *RedisClient) SaveGameSnapshot(snapshot *redis_models.GameSnapshot, ttl time.Duration) error {
	key := redis_utils.FormatGameSnapshotKey(snapshot.ID)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling game snapshot: %v", err)
	}
	return rc.Client.Set(rc.Ctx, key, data, ttl).Err()
}

// GetGameSnapshot retrieves a cached game snapshot.
// Returns nil without error on a cache miss.
func (rc *RedisClient) GetGameSnapshot(gameID string) (*redis_models.GameSnapshot, error) {
	key := redis_utils.FormatGameSnapshotKey(gameID)
	data, err := rc.Client.Get(rc.Ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting game snapshot: %v", err)
	}

	var snapshot redis_models.GameSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error unmarshaling game snapshot: %v", err)
	}
	return &snapshot, nil
}

// DeleteGameSnapshot invalidates the cached snapshot after a write
func (rc *RedisClient) DeleteGameSnapshot(gameID string) error {
	key := redis_utils.FormatGameSnapshotKey(gameID)
	if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting game snapshot: %v", err)
	}
	return nil
}

// PushChatEntry appends a message to the game's cached chat backlog
// Key format: "game:{id}:chat", trimmed to the last 100 entries, TTL 24h
func (rc *RedisClient) PushChatEntry(gameID string, entry redis_models.ChatEntry) error {
	key := redis_utils.FormatChatKey(gameID)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshaling chat entry: %v", err)
	}

	pipe := rc.Client.Pipeline()
	pipe.RPush(rc.Ctx, key, data)
	pipe.LTrim(rc.Ctx, key, -ChatBacklog, -1)
	pipe.Expire(rc.Ctx, key, 24*time.Hour)
	if _, err := pipe.Exec(rc.Ctx); err != nil {
		return fmt.Errorf("error pushing chat entry: %v", err)
	}
	return nil
}

// GetRecentChat returns the cached chat backlog, oldest first.
// Returns nil without error when nothing is cached.
func (rc *RedisClient) GetRecentChat(gameID string) ([]redis_models.ChatEntry, error) {
	key := redis_utils.FormatChatKey(gameID)
	raw, err := rc.Client.LRange(rc.Ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting chat backlog: %v", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	entries := make([]redis_models.ChatEntry, 0, len(raw))
	for _, item := range raw {
		var entry redis_models.ChatEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("error unmarshaling chat entry: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveLeaderboard caches a computed leaderboard page
// Key format: "leaderboard:{type}"
func (rc *RedisClient) SaveLeaderboard(lbType string, entries []redis_models.RankedEntry, ttl time.Duration) error {
	key := redis_utils.FormatLeaderboardKey(lbType)
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error marshaling leaderboard: %v", err)
	}
	return rc.Client.Set(rc.Ctx, key, data, ttl).Err()
}

// GetLeaderboard retrieves a cached leaderboard page.
// Returns nil without error on a cache miss.
func (rc *RedisClient) GetLeaderboard(lbType string) ([]redis_models.RankedEntry, error) {
	key := redis_utils.FormatLeaderboardKey(lbType)
	data, err := rc.Client.Get(rc.Ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting leaderboard: %v", err)
	}

	var entries []redis_models.RankedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error unmarshaling leaderboard: %v", err)
	}
	return entries, nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
