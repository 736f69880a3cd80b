package ctxstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asimov-run/asimov/core/servicectx"
)

const createSnapshotTableSQL = `
CREATE TABLE IF NOT EXISTS service_context_snapshots (
	channel_id TEXT PRIMARY KEY,
	snapshot   JSONB NOT NULL,
	expires_at TIMESTAMPTZ
)`

// PostgresStore persists snapshots in a PostgreSQL table, one row per
// channel ID.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing *pgxpool.Pool (see
// integration/database/pg.Connect) and ensures the backing table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createSnapshotTableSQL); err != nil {
		return nil, fmt.Errorf("ctxstore: creating snapshot table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Save(ctx context.Context, channelID string, snap servicectx.Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("ctxstore: marshaling snapshot: %w", err)
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	const q = `
INSERT INTO service_context_snapshots (channel_id, snapshot, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (channel_id) DO UPDATE SET snapshot = $2, expires_at = $3`

	if _, err := s.pool.Exec(ctx, q, channelID, raw, expiresAt); err != nil {
		return fmt.Errorf("ctxstore: saving snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, channelID string) (servicectx.Snapshot, error) {
	const q = `SELECT snapshot, expires_at FROM service_context_snapshots WHERE channel_id = $1`

	var raw []byte
	var expiresAt *time.Time
	err := s.pool.QueryRow(ctx, q, channelID).Scan(&raw, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return servicectx.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: loading snapshot: %w", err)
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		_ = s.Delete(ctx, channelID)
		return servicectx.Snapshot{}, ErrNotFound
	}

	var snap servicectx.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: decoding snapshot: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Delete(ctx context.Context, channelID string) error {
	const q = `DELETE FROM service_context_snapshots WHERE channel_id = $1`
	if _, err := s.pool.Exec(ctx, q, channelID); err != nil {
		return fmt.Errorf("ctxstore: deleting snapshot: %w", err)
	}
	return nil
}
