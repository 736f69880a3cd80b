package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures Connect. Field names match the env tags documented in
// doc.go; callers loading from the environment typically populate this via
// caarlos0/env.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	ScanBatchSize  int64         `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
}

// Connect parses cfg.ConnectionURL and returns a ready *redis.Client,
// retrying the initial PING up to cfg.RetryAttempts times on failure.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToParseRedisConnString, err)
	}

	client := redis.NewClient(opts)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var pingErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if pingErr = client.Ping(connectCtx).Err(); pingErr == nil {
			return client, nil
		}
		if attempt < attempts-1 {
			select {
			case <-time.After(cfg.RetryInterval):
			case <-connectCtx.Done():
				_ = client.Close()
				return nil, fmt.Errorf("%w: %w", ErrRedisNotReady, connectCtx.Err())
			}
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("%w: %w", ErrRedisNotReady, pingErr)
}

// Healthcheck returns a function suitable for periodic readiness probes.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
