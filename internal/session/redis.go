package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edugen/edugen/internal/quiz"
)

const defaultSeenTTL = 24 * time.Hour

// NewRedisClient connects to the Redis server at url
// (redis://[:password@]host:port/db) and pings it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisRegistries returns a RegistryFunc backed by Redis sets that expire
// ttl after their last write.
func RedisRegistries(client *redis.Client, ttl time.Duration) RegistryFunc {
	return func(sessionID string, kind quiz.Kind) quiz.KeyRegistry {
		return NewRedisKeySet(client, sessionID, kind, ttl)
	}
}

// RedisKeySet is a seen-key registry stored as a Redis set, so that
// several server processes can share one session's keys.
type RedisKeySet struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ quiz.KeyRegistry = (*RedisKeySet)(nil)

// NewRedisKeySet creates the registry for one kind of one session.
func NewRedisKeySet(client *redis.Client, sessionID string, kind quiz.Kind, ttl time.Duration) *RedisKeySet {
	if ttl <= 0 {
		ttl = defaultSeenTTL
	}
	return &RedisKeySet{client: client, key: seenKey(sessionID, kind), ttl: ttl}
}

func seenKey(sessionID string, kind quiz.Kind) string {
	return "edugen:seen:" + sessionID + ":" + string(kind)
}

// Snapshot loads every registered key.
func (r *RedisKeySet) Snapshot(ctx context.Context) (*quiz.KeySet, error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return quiz.NewKeySet(members...), nil
}

// Register adds keys and refreshes the expiry.
func (r *RedisKeySet) Register(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	members := make([]any, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, r.key, members...)
		pipe.Expire(ctx, r.key, r.ttl)
		return nil
	})
	return err
}

// Reset deletes the set.
func (r *RedisKeySet) Reset(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
