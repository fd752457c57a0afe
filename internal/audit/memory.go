package audit

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/cvmhw/rogercore/internal/errors"
	"github.com/cvmhw/rogercore/internal/models"
)

// InMemoryStore implements Store using in-memory storage
type InMemoryStore struct {
	mu     sync.RWMutex
	events []models.CrisisEvent
	byID   map[string]int
}

// NewInMemoryStore creates a new in-memory audit store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID: make(map[string]int),
	}
}

// AppendEvent appends an event to the log.
func (s *InMemoryStore) AppendEvent(ctx context.Context, event *models.CrisisEvent) error {
	if event == nil || event.ID == "" {
		return apperrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[event.ID]; exists {
		return apperrors.StoreError{Operation: "append_event", Err: apperrors.ErrInvalidInput}
	}
	s.byID[event.ID] = len(s.events)
	s.events = append(s.events, *event)
	return nil
}

// UpdateNotificationStatus mutates the only mutable field of a stored event.
func (s *InMemoryStore) UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, exists := s.byID[id]
	if !exists {
		return apperrors.ErrNotFound
	}
	s.events[idx].NotificationStatus = status
	return nil
}

// QueryEvents retrieves events matching the query, newest first.
func (s *InMemoryStore) QueryEvents(ctx context.Context, q models.EventQuery) ([]models.CrisisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.CrisisEvent
	for _, ev := range s.events {
		if q.Matches(ev) {
			result = append(result, ev)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if q.Offset > 0 && q.Offset < len(result) {
		result = result[q.Offset:]
	} else if q.Offset >= len(result) && q.Offset > 0 {
		result = []models.CrisisEvent{}
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}

	return result, nil
}

// GetEvent retrieves a single event by ID
func (s *InMemoryStore) GetEvent(ctx context.Context, id string) (*models.CrisisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx, exists := s.byID[id]; exists {
		ev := s.events[idx]
		return &ev, nil
	}
	return nil, nil
}

// Health always returns nil for in-memory store
func (s *InMemoryStore) Health(ctx context.Context) error {
	return nil
}
