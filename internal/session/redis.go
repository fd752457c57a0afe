package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/models"
)

// sessionTTL bounds how long abandoned session state lingers. Sessions live
// for a browser tab; a day is generous.
const sessionTTL = 24 * time.Hour

const keyPrefix = "rogercore:session:"

// RedisStore implements Store backed by Redis, so session state survives a
// process restart.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Load returns the stored state for a session. Unknown sessions and corrupt
// payloads both yield a fresh state; only transport failures surface as
// errors.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*models.SessionState, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return models.NewSessionState(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var state models.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		logger.Warn("Corrupt session state reinitialized", "session_id", sessionID, "error", err)
		return models.NewSessionState(sessionID), nil
	}
	if !state.Valid() {
		logger.Warn("Corrupt session state reinitialized", "session_id", sessionID)
		return models.NewSessionState(sessionID), nil
	}
	return &state, nil
}

// Save stores session state with a refreshed TTL.
func (s *RedisStore) Save(ctx context.Context, state *models.SessionState) error {
	if state == nil || state.SessionID == "" {
		return nil
	}
	state.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", state.SessionID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+state.SessionID, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", state.SessionID, err)
	}
	return nil
}

// Health pings Redis.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
