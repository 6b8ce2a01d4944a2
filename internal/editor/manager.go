package editor

import (
	"sync"
	"time"
)

// Manager keeps one live session per user. Sessions are created lazily on
// first access and torn down on logout or server shutdown.
type Manager struct {
	quiet   time.Duration
	saver   Saver
	onError func(userID string, err error)

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(quiet time.Duration, saver Saver, onError func(userID string, err error)) *Manager {
	return &Manager{
		quiet:    quiet,
		saver:    saver,
		onError:  onError,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the user's session, creating an unhydrated one when
// none exists yet. Hydration is the caller's job.
func (m *Manager) GetOrCreate(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	var onError func(error)
	if m.onError != nil {
		onError = func(err error) { m.onError(userID, err) }
	}
	s := NewSession(userID, m.quiet, m.saver, onError)
	m.sessions[userID] = s
	return s
}

// Get returns the user's session if one is live.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Close tears down one user's session. Pending autosaves are cancelled and
// any in-flight result is discarded.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll tears down every live session. Called on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
