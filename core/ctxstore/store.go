package ctxstore

import (
	"context"
	"errors"
	"time"

	"github.com/asimov-run/asimov/core/servicectx"
)

// ErrNotFound is returned by Load when no snapshot is stored for a channel
// ID, whether it was never saved, already deleted, or expired.
var ErrNotFound = errors.New("ctxstore: snapshot not found")

// Store persists suspended service context snapshots keyed by service
// half-channel ID. ttl of zero means no expiry.
type Store interface {
	Save(ctx context.Context, channelID string, snap servicectx.Snapshot, ttl time.Duration) error
	Load(ctx context.Context, channelID string) (servicectx.Snapshot, error)
	Delete(ctx context.Context, channelID string) error
}
