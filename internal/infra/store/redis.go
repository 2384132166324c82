package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/windlane/gustline/internal/core/domain"
)

const keyPrefix = "gustline:cache:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// RedisStore keeps cache entries in Redis so they survive process restarts
// and are visible to every cooperating process of the application. Each
// entry is a single JSON value; SET replaces it atomically, which gives the
// required last-write-wins semantics per kind.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping checks store reachability.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Put overwrites the kind's entry wholesale.
func (s *RedisStore) Put(ctx context.Context, kind domain.Kind, payload any, storedAt time.Time) error {
	data, err := encode(payload, storedAt)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+string(kind), data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", kind, err)
	}
	return nil
}

// Get returns the kind's entry, or found=false when none exists.
func (s *RedisStore) Get(ctx context.Context, kind domain.Kind) (Entry, bool, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+string(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get %s: %w", kind, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	return entry, true, nil
}
