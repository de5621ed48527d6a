package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edugen/edugen/internal/quiz"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("session not found")

// Manager keeps the live sessions of the HTTP API keyed by ID.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	collector  *quiz.Collector
	registries RegistryFunc
}

// NewManager creates a Manager whose sessions share collector.
func NewManager(collector *quiz.Collector, registries RegistryFunc) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		collector:  collector,
		registries: registries,
	}
}

// Create starts a new empty session.
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.collector, m.registries)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete forgets a session. Its seen keys are left to expire.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// List returns the live session IDs, oldest first.
func (m *Manager) List() []string {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt().Before(all[j].CreatedAt()) })
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
