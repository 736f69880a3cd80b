package ctxstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asimov-run/asimov/core/servicectx"
)

// RedisStore persists snapshots in Redis as JSON strings, one key per
// channel ID. Expiry is enforced natively by Redis via SET ... EX.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisKeyPrefix overrides the default "asimov:ctx:" key prefix.
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.keyPrefix = prefix }
}

// NewRedisStore wraps an existing *redis.Client (see
// integration/database/redis.Connect).
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, keyPrefix: "asimov:ctx:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(channelID string) string {
	return s.keyPrefix + channelID
}

func (s *RedisStore) Save(ctx context.Context, channelID string, snap servicectx.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("ctxstore: marshaling snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(channelID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("ctxstore: saving snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, channelID string) (servicectx.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key(channelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return servicectx.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: loading snapshot: %w", err)
	}

	var snap servicectx.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: decoding snapshot: %w", err)
	}
	return snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, channelID string) error {
	if err := s.client.Del(ctx, s.key(channelID)).Err(); err != nil {
		return fmt.Errorf("ctxstore: deleting snapshot: %w", err)
	}
	return nil
}
