package integration

import (
	"sync"
)

// Manager holds the registered integrations and resolves the active
// one for a buffer's content type. Registration order decides
// precedence: the first integration declaring a filetype wins.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu           sync.RWMutex
	integrations []Integration
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register appends an integration. Duplicate IDs are rejected.
func (m *Manager) Register(in Integration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.integrations {
		if existing.ID() == in.ID() {
			return ErrDuplicateIntegration
		}
	}
	m.integrations = append(m.integrations, in)
	return nil
}

// ForFiletype returns the first integration whose filetypes include
// ft. Returns ErrNoIntegration if none match.
func (m *Manager) ForFiletype(ft string) (Integration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, in := range m.integrations {
		for _, candidate := range in.Filetypes() {
			if candidate == ft {
				return in, nil
			}
		}
	}
	return nil, ErrNoIntegration
}

// List returns the registered integrations in registration order.
func (m *Manager) List() []Integration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Integration, len(m.integrations))
	copy(out, m.integrations)
	return out
}
