package cart

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Manager hands out one checkout machine per storefront session. Machines
// are kept for the process lifetime; their carts survive restarts through
// the file slots.
type Manager struct {
	mu       sync.Mutex
	dir      string
	placer   OrderPlacer
	machines map[string]*Checkout
}

func NewManager(dir string, placer OrderPlacer) *Manager {
	return &Manager{
		dir:      dir,
		placer:   placer,
		machines: make(map[string]*Checkout),
	}
}

// ForSession resolves the machine for a session id. Ids must be UUIDs; that
// both matches what the cookie layer issues and keeps session-derived file
// names away from path tricks.
func (m *Manager) ForSession(session string) (*Checkout, error) {
	if _, err := uuid.Parse(session); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[session]; ok {
		return machine, nil
	}

	slot := NewFileSlot(filepath.Join(m.dir, session+".json"))
	machine, err := NewCheckout(slot, m.placer)
	if err != nil {
		return nil, err
	}
	m.machines[session] = machine
	return machine, nil
}
