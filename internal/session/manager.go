package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager tracks live sessions and snapshots them into the Store at
// stage boundaries. A session that the process loses (restart, eviction)
// is gone as a live flow; only its record survives. There is no
// partial-session resume.
type Manager struct {
	mu    sync.Mutex
	store *Store
	live  map[string]*Session
}

func NewManager(store *Store) *Manager {
	return &Manager{
		store: store,
		live:  make(map[string]*Session),
	}
}

// Create starts a fresh session in welcome.
func (m *Manager) Create() *Session {
	s := NewSession(uuid.NewString())
	m.mu.Lock()
	m.live[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.live[id]
	return s, ok
}

// Persist snapshots the session into the store.
func (m *Manager) Persist(s *Session) {
	if m.store != nil {
		m.store.Put(s.Snapshot())
	}
}

// PersistRecord writes an amended snapshot, for post-exit supplements
// that touch only the record.
func (m *Manager) PersistRecord(r Record) {
	if m.store != nil {
		m.store.Put(r)
	}
}

// Reset wipes a session back to welcome and drops its persisted record.
func (m *Manager) Reset(id string) bool {
	s, ok := m.Get(id)
	if !ok {
		return false
	}
	s.Reset()
	if m.store != nil {
		m.store.Delete(id)
	}
	return true
}

// Remove forgets a finished session's live state. Its record stays in
// the store.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
}

// Records lists persisted session snapshots, newest first.
func (m *Manager) Records() []Record {
	if m.store == nil {
		return nil
	}
	return m.store.List()
}
