// Package session persists per-session conversation state: phone request
// progress, the asked-location flag, and phrasing escalation tiers. State is
// single-writer per session; the engine serializes turns before touching it.
package session

import (
	"context"

	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/models"
)

// Store defines the interface for session state storage. Load always returns
// usable state: unknown sessions and corrupt persisted state both come back
// as a fresh SessionState rather than an error the turn would have to handle.
type Store interface {
	Load(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, state *models.SessionState) error
	Health(ctx context.Context) error
}

// New creates a session store: Redis-backed when a URL is configured,
// in-memory otherwise.
func New(redisURL string) (Store, error) {
	if redisURL == "" {
		logger.Info("REDIS_URL not set; using in-memory session store")
		return NewInMemoryStore(), nil
	}
	return NewRedisStore(redisURL)
}
