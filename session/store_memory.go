package session

import (
	"strings"
	"sync"

	"github.com/stockyourlot/stocklot-client/roles"
)

// MemoryStore is an in-memory implementation of Store, used in tests and by
// embedders that manage persistence themselves.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	s.RawRoles = append([]string(nil), m.session.RawRoles...)
	return s
}

func (m *MemoryStore) Put(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.RawRoles = append([]string(nil), s.RawRoles...)
	m.session = s
	return nil
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Token = token
	return nil
}

func (m *MemoryStore) SetDisplayName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.DisplayName = name
	return nil
}

func (m *MemoryStore) SetDealerName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.DealerName = strings.TrimSpace(name)
	return nil
}

func (m *MemoryStore) SetLandingRole(role roles.LandingRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.LandingRole = role
	return nil
}

func (m *MemoryStore) SetRawRoles(rawRoles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(rawRoles) == 0 {
		m.session.RawRoles = nil
		return nil
	}
	m.session.RawRoles = append([]string(nil), rawRoles...)
	return nil
}

func (m *MemoryStore) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}
