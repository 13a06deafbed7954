// Package schema turns free-form model output into validated itinerary
// values. Parsing is lenient (code fences stripped, enums
// case-normalized once), validation is strict, and every violation is
// reported as a diagnostic string suitable for a corrective prompt.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlastravel/atlas/internal/domain"
)

// StripFences removes a surrounding markdown code fence, with or
// without a language tag, from model output.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line ("json", "yaml", or empty)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseItinerary decodes and validates a full itinerary payload.
// Diagnostics are empty on success.
func ParseItinerary(raw string) (domain.Itinerary, []string) {
	var it domain.Itinerary
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &it); err != nil {
		return it, []string{fmt.Sprintf("payload is not valid JSON: %v", err)}
	}
	normalizeItinerary(&it)
	return it, ValidateItinerary(it)
}

// daysEnvelope is the day-subset payload requested during gap-fill.
type daysEnvelope struct {
	Days []domain.ItineraryDay `json:"days"`
}

// ParseDays decodes and validates a {"days": [...]} payload produced
// when only part of the trip was requested.
func ParseDays(raw string) ([]domain.ItineraryDay, []string) {
	var env daysEnvelope
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, []string{fmt.Sprintf("payload is not valid JSON: %v", err)}
	}
	if len(env.Days) == 0 {
		return nil, []string{`payload must contain a non-empty "days" array`}
	}
	for i := range env.Days {
		normalizeDay(&env.Days[i])
	}
	var diags []string
	for i, day := range env.Days {
		diags = append(diags, validateDay(fmt.Sprintf("days[%d]", i), day)...)
	}
	return env.Days, diags
}

// ValidateItinerary checks every structural invariant of the root
// aggregate and returns one diagnostic per violation.
func ValidateItinerary(it domain.Itinerary) []string {
	var diags []string

	if it.Destination.Name == "" {
		diags = append(diags, "destination.name is required")
	}
	if it.StartDate.IsZero() {
		diags = append(diags, "start_date is required (YYYY-MM-DD)")
	}
	if it.EndDate.IsZero() {
		diags = append(diags, "end_date is required (YYYY-MM-DD)")
	}
	if !it.StartDate.IsZero() && !it.EndDate.IsZero() && !it.StartDate.Before(it.EndDate) {
		diags = append(diags, fmt.Sprintf("end_date %s must be after start_date %s", it.EndDate, it.StartDate))
	}
	if it.Preferences.TravelerCount < 1 {
		diags = append(diags, "preferences.traveler_count must be at least 1")
	}
	if it.Preferences.Pace != "" && !domain.ValidPaces[it.Preferences.Pace] {
		diags = append(diags, fmt.Sprintf("preferences.pace %q is not one of relaxed|moderate|packed", it.Preferences.Pace))
	}
	if it.Preferences.BudgetUSD != nil && *it.Preferences.BudgetUSD < 0 {
		diags = append(diags, "preferences.budget_usd must not be negative")
	}

	seen := make(map[string]bool)
	for i, day := range it.Days {
		path := fmt.Sprintf("days[%d]", i)
		key := day.Date.String()
		if seen[key] {
			diags = append(diags, fmt.Sprintf("%s: duplicate date %s", path, key))
		}
		seen[key] = true
		if !day.Date.IsZero() && !it.StartDate.IsZero() && !it.EndDate.IsZero() {
			if day.Date.Before(it.StartDate) || it.EndDate.Before(day.Date) {
				diags = append(diags, fmt.Sprintf("%s: date %s is outside [%s, %s]", path, key, it.StartDate, it.EndDate))
			}
		}
		diags = append(diags, validateDay(path, day)...)
	}
	return diags
}

func validateDay(path string, day domain.ItineraryDay) []string {
	var diags []string
	if day.Date.IsZero() {
		diags = append(diags, path+": date is required (YYYY-MM-DD)")
	}
	if len(day.Activities) == 0 {
		diags = append(diags, path+": at least one activity is required")
	}
	for i, act := range day.Activities {
		diags = append(diags, validateActivity(fmt.Sprintf("%s.activities[%d]", path, i), act)...)
	}
	if len(day.TravelSegments) > 0 && len(day.Activities) > 0 && len(day.TravelSegments) != len(day.Activities)-1 {
		diags = append(diags, fmt.Sprintf("%s: %d travel_segments for %d activities, want %d",
			path, len(day.TravelSegments), len(day.Activities), len(day.Activities)-1))
	}
	for i, seg := range day.TravelSegments {
		segPath := fmt.Sprintf("%s.travel_segments[%d]", path, i)
		if !domain.ValidTransitModes[seg.Mode] {
			diags = append(diags, fmt.Sprintf("%s: mode %q is not one of walk|bus|train|taxi|other", segPath, seg.Mode))
		}
		if seg.DurationMinutes < 0 {
			diags = append(diags, segPath+": duration_minutes must not be negative")
		}
	}
	for _, pair := range day.OverlappingActivities() {
		diags = append(diags, fmt.Sprintf("%s: activities %q and %q have overlapping time windows", path, pair[0], pair[1]))
	}
	return diags
}

func validateActivity(path string, act domain.Activity) []string {
	var diags []string
	if act.Title == "" {
		diags = append(diags, path+": title is required")
	}
	if act.DurationHours <= 0 {
		diags = append(diags, path+": duration_hours must be greater than zero")
	}
	if !domain.ValidCategories[act.Category] {
		diags = append(diags, fmt.Sprintf("%s: category %q is not one of sightseeing|food|culture|adventure|leisure", path, act.Category))
	}
	start, startErr := clockOrEmpty(act.StartTime)
	if startErr != nil {
		diags = append(diags, fmt.Sprintf("%s: start_time: %v", path, startErr))
	}
	end, endErr := clockOrEmpty(act.EndTime)
	if endErr != nil {
		diags = append(diags, fmt.Sprintf("%s: end_time: %v", path, endErr))
	}
	if act.StartTime != "" && act.EndTime != "" && startErr == nil && endErr == nil && start >= end {
		diags = append(diags, fmt.Sprintf("%s: start_time %s must be before end_time %s", path, act.StartTime, act.EndTime))
	}
	if act.EstimatedCostUSD != nil && *act.EstimatedCostUSD < 0 {
		diags = append(diags, path+": estimated_cost_usd must not be negative")
	}
	return diags
}

func clockOrEmpty(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return domain.ParseClock(s)
}

// normalizeItinerary lowercases enum-valued fields once so that casing
// alone never triggers a repair round.
func normalizeItinerary(it *domain.Itinerary) {
	it.Preferences.Pace = domain.TripPace(lower(string(it.Preferences.Pace)))
	for i := range it.Days {
		normalizeDay(&it.Days[i])
	}
}

func normalizeDay(day *domain.ItineraryDay) {
	day.Source = domain.DaySource(lower(string(day.Source)))
	for i := range day.Activities {
		day.Activities[i].Category = domain.ActivityCategory(lower(string(day.Activities[i].Category)))
	}
	for i := range day.TravelSegments {
		day.TravelSegments[i].Mode = domain.TransitMode(lower(string(day.TravelSegments[i].Mode)))
	}
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
