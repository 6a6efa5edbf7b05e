package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"prdgen/internal/domain"
	"prdgen/internal/domain/services"
	domainllm "prdgen/internal/domain/services/llm"
)

// Manager owns the live sessions. Each session is single-writer; the
// manager only guards its own map so concurrent HTTP requests can address
// different sessions.
type Manager struct {
	docs    services.DocumentService
	gateway domainllm.Gateway
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(docs services.DocumentService, gateway domainllm.Gateway, logger *slog.Logger) *Manager {
	return &Manager{
		docs:     docs,
		gateway:  gateway,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new Empty session and returns it.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:      uuid.NewString(),
		docs:    m.docs,
		gateway: m.gateway,
		logger:  m.logger,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session", s.ID)

	return s
}

// Get returns a session by id, or domain.ErrNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	return s, nil
}

// Remove discards a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
