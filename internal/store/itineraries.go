package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atlastravel/atlas/internal/domain"
)

// SaveItinerary persists the itinerary and returns the stored copy. A
// missing ID is assigned; CreatedAt is stamped on first save.
func (s *Store) SaveItinerary(it domain.Itinerary) (domain.Itinerary, error) {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	path, err := s.itineraryPath(it.ID)
	if err != nil {
		return domain.Itinerary{}, err
	}
	if err := writeAtomic(path, it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("saving itinerary %s: %w", it.ID, err)
	}
	return it, nil
}

// LoadItinerary reads a saved itinerary by id. Returns ErrNotFound when
// no such document exists.
func (s *Store) LoadItinerary(id string) (domain.Itinerary, error) {
	path, err := s.itineraryPath(id)
	if err != nil {
		return domain.Itinerary{}, err
	}
	var it domain.Itinerary
	if err := readJSON(path, &it); err != nil {
		return domain.Itinerary{}, err
	}
	return it, nil
}

// ItinerarySummary is a listing entry for a saved itinerary.
type ItinerarySummary struct {
	ID          string      `json:"id"`
	Destination string      `json:"destination"`
	StartDate   domain.Date `json:"start_date"`
	EndDate     domain.Date `json:"end_date"`
	Days        int         `json:"days"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ListItineraries returns summaries of all saved itineraries, newest first.
func (s *Store) ListItineraries() ([]ItinerarySummary, error) {
	dir := filepath.Join(s.dataDir, "itineraries")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing itineraries: %w", err)
	}

	var summaries []ItinerarySummary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		var it domain.Itinerary
		if err := readJSON(filepath.Join(dir, name), &it); err != nil {
			continue // skip unreadable documents rather than fail the listing
		}
		summaries = append(summaries, ItinerarySummary{
			ID:          it.ID,
			Destination: it.Destination.Name,
			StartDate:   it.StartDate,
			EndDate:     it.EndDate,
			Days:        len(it.Days),
			CreatedAt:   it.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// itineraryPath validates the id and returns the document path. IDs are
// user- and model-supplied, so path separators are rejected outright.
func (s *Store) itineraryPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid itinerary id %q", id)
	}
	return filepath.Join(s.dataDir, "itineraries", id+".json"), nil
}
