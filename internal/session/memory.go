package session

import (
	"context"
	"sync"
	"time"

	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/models"
)

// InMemoryStore implements Store using in-memory storage
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.SessionState
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*models.SessionState),
	}
}

// Load returns the stored state for a session, or a fresh one.
func (s *InMemoryStore) Load(ctx context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.RLock()
	state, exists := s.sessions[sessionID]
	s.mu.RUnlock()

	if !exists {
		return models.NewSessionState(sessionID), nil
	}
	if !state.Valid() {
		logger.Warn("Corrupt session state reinitialized", "session_id", sessionID)
		return models.NewSessionState(sessionID), nil
	}
	return state.Clone(), nil
}

// Save stores session state
func (s *InMemoryStore) Save(ctx context.Context, state *models.SessionState) error {
	if state == nil || state.SessionID == "" {
		return nil
	}
	state.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.SessionID] = state.Clone()
	return nil
}

// Health always returns nil for in-memory store
func (s *InMemoryStore) Health(ctx context.Context) error {
	return nil
}
