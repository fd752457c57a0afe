package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/cvmhw/rogercore/internal/models"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rs, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("redis store: %v", err)
	}
	t.Cleanup(func() { rs.Close() })

	return map[string]Store{
		"memory": NewInMemoryStore(),
		"redis":  rs,
	}
}

func TestStore_LoadUnknownSessionIsFresh(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			state, err := store.Load(context.Background(), "never-seen")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if state.SessionID != "never-seen" {
				t.Errorf("Expected fresh state keyed by session, got %q", state.SessionID)
			}
			if state.Phone.RequestCount != 0 || state.AskedLocation {
				t.Error("Expected zeroed fresh state")
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			state := models.NewSessionState("sess-1")
			state.AskedLocation = true
			state.Phone.RequestCount = 2
			state.AdvanceTier(models.CrisisSuicide)
			state.LastLocation = &models.LocationInfo{City: "Cleveland", Region: "Ohio"}

			if err := store.Save(ctx, state); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := store.Load(ctx, "sess-1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !loaded.AskedLocation {
				t.Error("Expected asked-location flag to persist")
			}
			if loaded.Phone.RequestCount != 2 {
				t.Errorf("Expected request count 2, got %d", loaded.Phone.RequestCount)
			}
			if loaded.Tier(models.CrisisSuicide) != 1 {
				t.Errorf("Expected suicide tier 1, got %d", loaded.Tier(models.CrisisSuicide))
			}
			if loaded.LastLocation == nil || loaded.LastLocation.City != "Cleveland" {
				t.Errorf("Expected location to persist, got %+v", loaded.LastLocation)
			}
		})
	}
}

func TestStore_LoadReturnsIsolatedCopy(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	state := models.NewSessionState("sess-1")
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, _ := store.Load(ctx, "sess-1")
	first.AskedLocation = true
	first.AdvanceTier(models.CrisisSuicide)

	second, _ := store.Load(ctx, "sess-1")
	if second.AskedLocation || second.Tier(models.CrisisSuicide) != 0 {
		t.Error("Expected loaded state to be isolated from caller mutations")
	}
}

func TestRedisStore_CorruptStateReinitialized(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("redis store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	mr.Set(keyPrefix+"sess-1", "{not valid json")

	state, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.Phone.RequestCount != 0 || state.AskedLocation {
		t.Error("Expected fresh state after corrupt payload")
	}

	// Structurally invalid counts are also treated as corruption.
	mr.Set(keyPrefix+"sess-2", `{"session_id":"sess-2","phone":{"request_count":99}}`)
	state, err = store.Load(ctx, "sess-2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.Phone.RequestCount != 0 {
		t.Error("Expected fresh state after invalid request count")
	}
}
