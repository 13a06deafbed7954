package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func itineraryArgs(t *testing.T) map[string]any {
	t.Helper()
	return map[string]any{
		"itinerary": map[string]any{
			"destination": map[string]any{"name": "Kyoto", "country": "Japan"},
			"start_date":  "2026-04-01",
			"end_date":    "2026-04-03",
			"preferences": map[string]any{"traveler_count": 1, "pace": "moderate"},
			"days": []any{
				map[string]any{
					"date":   "2026-04-01",
					"source": "generated",
					"activities": []any{
						map[string]any{"title": "Fushimi Inari", "duration_hours": 3, "category": "sightseeing"},
					},
				},
			},
		},
	}
}

func TestSaveThenLoadItinerary(t *testing.T) {
	s := testStore(t)
	save := NewSaveItineraryTool(s)
	load := NewLoadItineraryTool(s)

	payload, err := save.Invoke(context.Background(), itineraryArgs(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	conf := payload.(SaveConfirmation)
	if !conf.Saved || conf.ID == "" || conf.Days != 1 {
		t.Fatalf("confirmation = %+v", conf)
	}

	loaded, err := load.Invoke(context.Background(), map[string]any{"id": conf.ID})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	it := loaded.(domain.Itinerary)
	if it.Destination.Name != "Kyoto" || len(it.Days) != 1 {
		t.Fatalf("loaded itinerary = %+v", it)
	}
}

func TestLoadMissingItineraryIsDegraded(t *testing.T) {
	load := NewLoadItineraryTool(testStore(t))
	_, err := load.Invoke(context.Background(), map[string]any{"id": "no-such-id"})
	var deg *Degradation
	if !errors.As(err, &deg) {
		t.Fatalf("err = %v, want Degradation", err)
	}
}

func TestSaveRejectsEmptyItinerary(t *testing.T) {
	save := NewSaveItineraryTool(testStore(t))
	_, err := save.Invoke(context.Background(), map[string]any{"itinerary": map[string]any{}})
	var te *domain.ToolError
	if !errors.As(err, &te) || te.Kind != domain.FailInvalidInput {
		t.Fatalf("err = %v, want ToolError invalid_input", err)
	}
}

func TestLoadProfileDefaultsWhenAbsent(t *testing.T) {
	load := NewLoadProfileTool(testStore(t))
	payload, err := load.Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	p := payload.(domain.UserProfile)
	if p.TripCount != 0 || p.PreferredPace != domain.PaceModerate {
		t.Fatalf("profile = %+v, want defaults", p)
	}
}

func TestUpdateProfileFoldsTrip(t *testing.T) {
	s := testStore(t)
	update := NewUpdateProfileTool(s)

	payload, err := update.Invoke(context.Background(), itineraryArgs(t))
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	p := payload.(domain.UserProfile)
	if p.TripCount != 1 {
		t.Fatalf("TripCount = %d, want 1", p.TripCount)
	}
	if len(p.PastDestinations) != 1 || p.PastDestinations[0] != "Kyoto" {
		t.Fatalf("PastDestinations = %v", p.PastDestinations)
	}

	// The update must be durable, not in-memory only.
	stored, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if stored.TripCount != 1 {
		t.Fatalf("stored TripCount = %d, want 1", stored.TripCount)
	}
}
