package runner

import (
	"sync"

	"github.com/asimov-run/asimov/core/servicectx"
)

// Manager is the service-wide concurrent registry of live Service
// Contexts, keyed by service channel ID. The transport layer routes every
// inbound message through the Manager so that at most one context ever
// exists for a given channel, matching the single-live-context invariant.
type Manager struct {
	mu       sync.RWMutex
	contexts map[string]*servicectx.Context
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{contexts: make(map[string]*servicectx.Context)}
}

// Add registers ctx under channelID. It fails with ErrAlreadyActive if a
// context is already registered under that ID.
func (m *Manager) Add(channelID string, ctx *servicectx.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.contexts[channelID]; exists {
		return ErrAlreadyActive
	}
	m.contexts[channelID] = ctx
	return nil
}

// Get returns the context registered under channelID, if any.
func (m *Manager) Get(channelID string) (*servicectx.Context, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctx, ok := m.contexts[channelID]
	return ctx, ok
}

// Remove unregisters channelID. It is a no-op if nothing is registered.
func (m *Manager) Remove(channelID string) {
	m.mu.Lock()
	delete(m.contexts, channelID)
	m.mu.Unlock()
}

// Len reports the number of currently active contexts.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contexts)
}
