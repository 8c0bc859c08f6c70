// Package artifact stores the binary keepsakes a session produces,
// which today means the illustration on the card. Text artifacts live in
// the session record; only bytes land here.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotFound reports a missing object.
var ErrNotFound = errors.New("artifact: not found")

// Object is one stored blob with its content type.
type Object struct {
	Data        []byte
	ContentType string
}

// Store persists session artifacts under (sessionID, name).
type Store interface {
	Put(ctx context.Context, sessionID, name string, obj Object) error
	Get(ctx context.Context, sessionID, name string) (Object, error)
	// URL returns a time-limited fetch URL, or "" when the backend
	// cannot mint one and the caller must serve the bytes itself.
	URL(ctx context.Context, sessionID, name string) (string, error)
}

// MemoryStore holds artifacts in the process. The default for local runs
// and tests; a restart loses the cards, which matches the session flow
// having no resume.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func memKey(sessionID, name string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	name = strings.TrimSpace(name)
	if sessionID == "" {
		return "", fmt.Errorf("artifact: session id is required")
	}
	if name == "" {
		return "", fmt.Errorf("artifact: name is required")
	}
	return sessionID + "/" + name, nil
}

func (s *MemoryStore) Put(ctx context.Context, sessionID, name string, obj Object) error {
	key, err := memKey(sessionID, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[key] = obj
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID, name string) (Object, error) {
	key, err := memKey(sessionID, name)
	if err != nil {
		return Object{}, err
	}
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (s *MemoryStore) URL(ctx context.Context, sessionID, name string) (string, error) {
	return "", nil
}
