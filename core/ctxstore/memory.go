package ctxstore

import (
	"context"
	"sync"
	"time"

	"github.com/asimov-run/asimov/core/servicectx"
)

type memoryEntry struct {
	snapshot  servicectx.Snapshot
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-memory Store for development and testing. A
// background goroutine periodically sweeps expired entries; call Stop to
// release it.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	sweepInterval time.Duration
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewMemoryStore returns a MemoryStore that sweeps for expired entries
// every sweepInterval (defaults to one minute if non-positive). Call
// Stop when done with it.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	s := &MemoryStore{
		entries:       map[string]memoryEntry{},
		sweepInterval: sweepInterval,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.sweepLoop(ctx)

	return s
}

func (s *MemoryStore) Save(ctx context.Context, channelID string, snap servicectx.Snapshot, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[channelID] = memoryEntry{snapshot: snap, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, channelID string) (servicectx.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[channelID]
	if !ok {
		return servicectx.Snapshot{}, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		delete(s.entries, channelID)
		return servicectx.Snapshot{}, ErrNotFound
	}
	return entry.snapshot, nil
}

func (s *MemoryStore) Delete(ctx context.Context, channelID string) error {
	s.mu.Lock()
	delete(s.entries, channelID)
	s.mu.Unlock()
	return nil
}

// Stop halts the expiry sweep goroutine. Safe to call once.
func (s *MemoryStore) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *MemoryStore) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *MemoryStore) sweepExpired() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if !entry.expiresAt.IsZero() && entry.expiresAt.Before(now) {
			delete(s.entries, id)
		}
	}
}
