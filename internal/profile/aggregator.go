// Package profile folds saved itineraries into the durable user
// preference summary. The fold is a pure function: callers persist the
// returned profile themselves.
package profile

import (
	"sort"
	"strings"
	"time"

	"github.com/atlastravel/atlas/internal/domain"
)

// Aggregate folds one saved itinerary into the previous profile and
// returns the updated profile. Preference fields have set semantics, so
// re-saving trips to familiar places never duplicates tags; TripCount
// increments by exactly one per call, including for identical content.
func Aggregate(prev domain.UserProfile, it domain.Itinerary) domain.UserProfile {
	next := prev

	next.FavouriteDestinationTypes = addToSet(prev.FavouriteDestinationTypes, InferDestinationType(it.Destination))

	categories := next.FavouriteCategories
	for _, cat := range activityCategories(it) {
		categories = addToSet(categories, string(cat))
	}
	next.FavouriteCategories = categories

	next.PastDestinations = addToSet(prev.PastDestinations, it.Destination.Name)

	if budget := tripBudget(it); budget != nil {
		next.TypicalBudgetUSD = runningAverage(prev.TypicalBudgetUSD, prev.TripCount, *budget)
	}

	if it.Preferences.Pace != "" {
		next.PreferredPace = it.Preferences.Pace
	}

	next.TripCount = prev.TripCount + 1
	next.UpdatedAt = time.Now().UTC()
	return next
}

// InferDestinationType derives a coarse destination type tag from the
// destination itself. The catalog does not record one, so this leans on
// simple signals: the country for now, falling back to "city".
func InferDestinationType(dest domain.Destination) string {
	name := strings.ToLower(dest.Name)
	switch {
	case strings.Contains(name, "beach") || strings.Contains(name, "island"):
		return "beach"
	case strings.Contains(name, "mount") || strings.Contains(name, "alps"):
		return "mountain"
	default:
		return "city"
	}
}

// activityCategories returns the distinct categories used across the
// itinerary, in stable order.
func activityCategories(it domain.Itinerary) []domain.ActivityCategory {
	seen := make(map[domain.ActivityCategory]bool)
	for _, day := range it.Days {
		for _, act := range day.Activities {
			if act.Category != "" {
				seen[act.Category] = true
			}
		}
	}
	cats := make([]domain.ActivityCategory, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// tripBudget returns the trip's stated budget, if any.
func tripBudget(it domain.Itinerary) *float64 {
	return it.Preferences.BudgetUSD
}

// runningAverage folds a new value into a running average weighted by the
// number of prior observations.
func runningAverage(prev *float64, priorCount int, value float64) *float64 {
	if prev == nil || priorCount <= 0 {
		v := value
		return &v
	}
	avg := (*prev*float64(priorCount) + value) / float64(priorCount+1)
	return &avg
}

// addToSet appends value to the slice if not already present
// (case-insensitive), preserving insertion order.
func addToSet(set []string, value string) []string {
	if value == "" {
		return set
	}
	for _, existing := range set {
		if strings.EqualFold(existing, value) {
			return set
		}
	}
	out := make([]string, len(set), len(set)+1)
	copy(out, set)
	return append(out, value)
}
