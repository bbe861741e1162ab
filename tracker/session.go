// tracker/session.go
package tracker

import (
	"sync"

	"github.com/google/uuid"
)

// SessionKey is the storage key the session id is persisted under.
const SessionKey = "_sid"

// SessionStore persists small string values for the lifetime of one browsing
// session (for a browser, its tab-scoped session storage).
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemorySessionStore keeps values in process memory.
type MemorySessionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{values: make(map[string]string)}
}

func (s *MemorySessionStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemorySessionStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// SessionProvider hands out the opaque per-session visitor id.
type SessionProvider struct {
	mu    sync.Mutex
	store SessionStore
	newID func() string
}

func NewSessionProvider(store SessionStore) *SessionProvider {
	return &SessionProvider{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
}

// ID returns the stored session id, generating and persisting one first if
// the store has none.
func (p *SessionProvider) ID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.store.Get(SessionKey); ok && id != "" {
		return id
	}
	id := p.newID()
	p.store.Set(SessionKey, id)
	return id
}
