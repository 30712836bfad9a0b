package chat

import (
	"context"
	"fmt"
	"sync"
)

// Manager lazily creates the one Session the conversational panel uses and
// hands the same instance back on every subsequent open. The provider-side
// handle is created once and reused; closing and reopening the panel within
// the same process does not recreate it.
type Manager struct {
	factory func(ctx context.Context) (*Session, error)

	mu      sync.Mutex
	session *Session
}

func NewManager(factory func(ctx context.Context) (*Session, error)) *Manager {
	return &Manager{factory: factory}
}

// Open returns the active session, creating it on first use.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	session, err := m.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat session: %w", err)
	}
	m.session = session
	return session, nil
}

// Active returns the session if one has been opened, without creating it.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}
