// Package audit persists the append-only crisis event log. A detection is
// written here before any notification is attempted: durability precedes
// delivery.
package audit

import (
	"context"

	"github.com/cvmhw/rogercore/internal/database"
	"github.com/cvmhw/rogercore/internal/models"
)

// Store defines the interface for crisis event storage. Events are
// append-only; only the notification status may change after creation.
type Store interface {
	AppendEvent(ctx context.Context, event *models.CrisisEvent) error
	UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus) error
	QueryEvents(ctx context.Context, q models.EventQuery) ([]models.CrisisEvent, error)
	GetEvent(ctx context.Context, id string) (*models.CrisisEvent, error)
	Health(ctx context.Context) error
}

// New creates a store instance backed by Postgres when configured, memory
// otherwise.
func New(db *database.DB) Store {
	if db.IsConfigured() {
		return NewPostgresStore(db)
	}
	return NewInMemoryStore()
}
