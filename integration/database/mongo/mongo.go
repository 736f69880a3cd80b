package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Config configures New and NewWithDatabase. Field names match the env tags
// documented in doc.go.
type Config struct {
	URL             string        `env:"MONGODB_URL,required"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// ErrFailedToConnectToMongo is returned when all retry attempts are
// exhausted without a successful Ping.
var ErrFailedToConnectToMongo = errors.New("failed to connect to mongodb")

// ErrHealthcheckFailed is returned when a health check ping fails.
var ErrHealthcheckFailed = errors.New("mongodb healthcheck failed")

// New connects to MongoDB, retrying the initial Ping to absorb Atlas cold
// starts and brief network interruptions.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToConnectToMongo, err)
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var pingErr error
	for attempt := 0; attempt < attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		pingErr = client.Ping(pingCtx, nil)
		cancel()
		if pingErr == nil {
			return client, nil
		}
		if attempt < attempts-1 {
			select {
			case <-time.After(cfg.RetryInterval):
			case <-ctx.Done():
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("%w: %w", ErrFailedToConnectToMongo, ctx.Err())
			}
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("%w: %w", ErrFailedToConnectToMongo, pingErr)
}

// NewWithDatabase connects via New and returns the named database handle.
func NewWithDatabase(ctx context.Context, cfg Config, database string) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(database), nil
}

// Healthcheck returns a function suitable for periodic readiness probes.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
