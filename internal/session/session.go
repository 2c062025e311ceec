// Package session holds the per-user working state that the legacy app kept
// in implicit global session variables: the authenticated flag, the
// currently open cache file and the pending manual-entry queue. State is
// explicit and request-scoped, keyed by an opaque cookie ID.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"contabil/internal/core"
)

// Session is one user's working state. Fields are read and written only
// through the Manager while holding its lock.
type Session struct {
	ID            string
	Authenticated bool
	// CurrentFile is the cache path of the open spreadsheet ("" when none).
	CurrentFile string
	// Pending is the manual-entry queue, buffered until the user flushes it.
	Pending []core.Entry

	lastSeen time.Time
}

// Manager owns all live sessions and expires idle ones in the background.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	m := &Manager{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go m.startCleanup()
	return m
}

// Get returns the session for id, or nil when unknown or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if time.Since(s.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil
	}
	s.lastSeen = time.Now()
	return s
}

// New creates a fresh unauthenticated session.
func (m *Manager) New() *Session {
	id := newSessionID()
	s := &Session{ID: id, lastSeen: time.Now()}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// Update runs fn on the session under the manager lock.
func (m *Manager) Update(id string, fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		fn(s)
		s.lastSeen = time.Now()
	}
}

// Drop forgets a session (logout/reset).
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Stop shuts down the cleanup goroutine.
func (m *Manager) Stop() {
	m.shutdownOnce.Do(func() {
		close(m.stopCleanup)
	})
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand is documented to not fail on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(b)
}
