package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/cvmhw/rogercore/internal/errors"
	"github.com/cvmhw/rogercore/internal/models"
)

func testEvent(id, sessionID string, t models.CrisisType, sev models.Severity, ts time.Time) *models.CrisisEvent {
	return &models.CrisisEvent{
		ID:                 id,
		Timestamp:          ts,
		SessionID:          sessionID,
		UserText:           "text",
		CrisisType:         t,
		Severity:           sev,
		ResponseText:       "response",
		DetectionMethod:    "pattern",
		NotificationStatus: models.NotificationPending,
	}
}

func TestInMemoryStore_AppendAndGet(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	ev := testEvent("ev-1", "sess-1", models.CrisisSuicide, models.SeverityCritical, time.Now())
	ev.Evidence = []models.MatchEvidence{
		{Category: models.CrisisSuicide, PatternID: "suicide.kill_myself", MatchedText: "kill myself"},
	}
	ev.Location = &models.LocationInfo{City: "Cleveland", Region: "Ohio"}

	if err := store.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	got, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected event, got nil")
	}
	if got.CrisisType != models.CrisisSuicide || got.Severity != models.SeverityCritical {
		t.Errorf("Unexpected event fields: %+v", got)
	}
	if len(got.Evidence) != 1 || got.Evidence[0].PatternID != "suicide.kill_myself" {
		t.Errorf("Expected evidence to persist, got %+v", got.Evidence)
	}

	missing, err := store.GetEvent(ctx, "nope")
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown event")
	}
}

func TestInMemoryStore_AppendRejectsInvalid(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	if err := store.AppendEvent(ctx, nil); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected invalid input for nil event, got %v", err)
	}
	if err := store.AppendEvent(ctx, &models.CrisisEvent{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Expected invalid input for empty ID, got %v", err)
	}

	ev := testEvent("ev-1", "sess-1", models.CrisisGeneral, models.SeverityLow, time.Now())
	if err := store.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := store.AppendEvent(ctx, ev); err == nil {
		t.Error("Expected error on duplicate ID")
	}
}

func TestInMemoryStore_UpdateNotificationStatus(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	ev := testEvent("ev-1", "sess-1", models.CrisisSelfHarm, models.SeverityHigh, time.Now())
	if err := store.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	if err := store.UpdateNotificationStatus(ctx, "ev-1", models.NotificationSent); err != nil {
		t.Fatalf("UpdateNotificationStatus failed: %v", err)
	}

	got, _ := store.GetEvent(ctx, "ev-1")
	if got.NotificationStatus != models.NotificationSent {
		t.Errorf("Expected status sent, got %s", got.NotificationStatus)
	}

	if err := store.UpdateNotificationStatus(ctx, "missing", models.NotificationFailed); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestInMemoryStore_QueryEvents(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := []*models.CrisisEvent{
		testEvent("ev-1", "sess-a", models.CrisisSuicide, models.SeverityCritical, base),
		testEvent("ev-2", "sess-a", models.CrisisEatingDisorder, models.SeverityHigh, base.Add(time.Minute)),
		testEvent("ev-3", "sess-b", models.CrisisGeneral, models.SeverityLow, base.Add(2*time.Minute)),
		testEvent("ev-4", "sess-b", models.CrisisSuicide, models.SeverityCritical, base.Add(3*time.Minute)),
	}
	for _, ev := range seed {
		if err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		query   models.EventQuery
		wantIDs []string
	}{
		{
			name:    "all newest first",
			query:   models.EventQuery{},
			wantIDs: []string{"ev-4", "ev-3", "ev-2", "ev-1"},
		},
		{
			name:    "by session",
			query:   models.EventQuery{SessionIDs: []string{"sess-a"}},
			wantIDs: []string{"ev-2", "ev-1"},
		},
		{
			name:    "by type",
			query:   models.EventQuery{Types: []models.CrisisType{models.CrisisSuicide}},
			wantIDs: []string{"ev-4", "ev-1"},
		},
		{
			name:    "by severity",
			query:   models.EventQuery{Severities: []models.Severity{models.SeverityCritical}},
			wantIDs: []string{"ev-4", "ev-1"},
		},
		{
			name:    "since excludes earlier",
			query:   models.EventQuery{Since: base.Add(90 * time.Second)},
			wantIDs: []string{"ev-4", "ev-3"},
		},
		{
			name:    "limit and offset",
			query:   models.EventQuery{Limit: 2, Offset: 1},
			wantIDs: []string{"ev-3", "ev-2"},
		},
		{
			name:    "offset past end",
			query:   models.EventQuery{Offset: 10},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.QueryEvents(ctx, tt.query)
			if err != nil {
				t.Fatalf("QueryEvents failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d events, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestInMemoryStore_StatusUpdateDoesNotReorder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"ev-1", "ev-2", "ev-3"} {
		ev := testEvent(id, "sess-1", models.CrisisGeneral, models.SeverityLow, base.Add(time.Duration(i)*time.Second))
		if err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	if err := store.UpdateNotificationStatus(ctx, "ev-2", models.NotificationFailed); err != nil {
		t.Fatalf("UpdateNotificationStatus failed: %v", err)
	}

	got, err := store.QueryEvents(ctx, models.EventQuery{})
	if err != nil {
		t.Fatalf("QueryEvents failed: %v", err)
	}
	if len(got) != 3 || got[0].ID != "ev-3" || got[1].ID != "ev-2" || got[2].ID != "ev-1" {
		t.Errorf("Expected stable order after status update, got %+v", got)
	}
	if got[1].NotificationStatus != models.NotificationFailed {
		t.Errorf("Expected failed status on ev-2, got %s", got[1].NotificationStatus)
	}
}
