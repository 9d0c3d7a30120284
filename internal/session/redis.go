package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/localpulse/localpulse/internal/types"
)

// RedisStore keeps transcripts in Redis so multiple server instances
// can share chat sessions. Each session is a JSON array under a
// "chat:" key with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis instance at url (a redis://
// address) and verifies it is reachable before returning.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return "chat:" + id
}

func (s *RedisStore) History(ctx context.Context, id string) ([]types.Turn, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var turns []types.Turn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return turns, nil
}

func (s *RedisStore) Append(ctx context.Context, id string, turns ...types.Turn) error {
	existing, err := s.History(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	updated := append(existing, turns...)
	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, sessionKey(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("reset session %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
