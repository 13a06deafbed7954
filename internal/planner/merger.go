// Package planner reconciles model-generated days with a possibly
// partial itinerary. The merge is pure over the data model; the caller
// drives any regeneration round it asks for.
package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atlastravel/atlas/internal/domain"
)

// GapSet returns the trip dates not covered by any user-supplied day,
// in ascending order. These are the only dates generation may fill.
func GapSet(it domain.Itinerary) []domain.Date {
	covered := make(map[string]bool)
	for _, day := range it.Days {
		if day.Source == domain.SourceUser {
			covered[day.Date.String()] = true
		}
	}
	var gaps []domain.Date
	for _, date := range it.TripDates() {
		if !covered[date.String()] {
			gaps = append(gaps, date)
		}
	}
	return gaps
}

// MergeResult is the outcome of one merge pass. When Missing is
// non-empty the merge is incomplete: the caller may regenerate days for
// exactly those dates and call Merge once more. A second incomplete
// pass is a ContinuityViolation, decided by the caller.
type MergeResult struct {
	Itinerary domain.Itinerary
	// Missing lists gap dates still uncovered after this pass, either
	// because generation skipped them or because a generated day
	// collided with a user day and was discarded.
	Missing []domain.Date
	// Discarded lists generated days dropped for duplicating a
	// user-supplied date.
	Discarded []domain.Date
}

// Complete reports whether the merge covered every trip date.
func (r MergeResult) Complete() bool { return len(r.Missing) == 0 }

// Merge assembles a full itinerary from the base (user days plus any
// previously generated days) and a batch of newly generated days.
//
// User days are copied by value into the output unchanged. Generated
// days are tagged SourceGenerated, or SourceRefined when they replace a
// previously generated day on a refinement pass. A generated day dated
// outside the trip range, or two generated days sharing a date, is a
// ContinuityViolation. A generated day duplicating a user date is
// discarded and reported via MergeResult.Discarded/Missing so the
// caller can regenerate it once.
func Merge(base domain.Itinerary, generated []domain.ItineraryDay) (MergeResult, error) {
	tripDates := base.TripDates()
	if len(tripDates) == 0 {
		return MergeResult{}, &domain.ContinuityViolation{
			Detail: fmt.Sprintf("trip range %s..%s contains no days", base.StartDate, base.EndDate),
		}
	}
	inRange := make(map[string]bool, len(tripDates))
	for _, d := range tripDates {
		inRange[d.String()] = true
	}

	userDays := make(map[string]domain.ItineraryDay)
	priorDays := make(map[string]domain.ItineraryDay)
	for _, day := range base.Days {
		key := day.Date.String()
		if !inRange[key] {
			return MergeResult{}, &domain.ContinuityViolation{
				Detail: fmt.Sprintf("existing day %s is outside the trip range", key),
			}
		}
		if day.Source == domain.SourceUser {
			userDays[key] = day
		} else {
			priorDays[key] = day
		}
	}

	result := MergeResult{}
	newDays := make(map[string]domain.ItineraryDay)
	for _, day := range generated {
		key := day.Date.String()
		if !inRange[key] {
			return MergeResult{}, &domain.ContinuityViolation{
				Detail: fmt.Sprintf("generated day %s is outside the trip range", key),
			}
		}
		if _, dup := newDays[key]; dup {
			return MergeResult{}, &domain.ContinuityViolation{
				Detail: fmt.Sprintf("generation produced two days for %s", key),
			}
		}
		if _, taken := userDays[key]; taken {
			result.Discarded = append(result.Discarded, day.Date)
			continue
		}
		if _, replacing := priorDays[key]; replacing {
			day.Source = domain.SourceRefined
		} else {
			day.Source = domain.SourceGenerated
		}
		newDays[key] = day
	}

	for _, date := range tripDates {
		key := date.String()
		switch {
		case userDays[key].Source == domain.SourceUser:
			result.Itinerary.Days = append(result.Itinerary.Days, userDays[key].Clone())
		case newDays[key].Source != "":
			result.Itinerary.Days = append(result.Itinerary.Days, newDays[key])
		case priorDays[key].Source != "":
			result.Itinerary.Days = append(result.Itinerary.Days, priorDays[key].Clone())
		default:
			result.Missing = append(result.Missing, date)
		}
	}

	if !result.Complete() {
		return result, nil
	}

	sort.Slice(result.Itinerary.Days, func(i, j int) bool {
		return result.Itinerary.Days[i].Date.Before(result.Itinerary.Days[j].Date)
	})
	if err := checkAdjacentContinuity(result.Itinerary.Days); err != nil {
		return MergeResult{}, err
	}

	out := base
	out.Days = result.Itinerary.Days
	result.Itinerary = out
	return result, nil
}

// checkAdjacentContinuity rejects a generated day that repeats an
// activity from an adjacent user day. Repetition means an exact
// case-insensitive (title, location) match; anything fuzzier belongs to
// the model, not the merge.
func checkAdjacentContinuity(days []domain.ItineraryDay) error {
	for i, day := range days {
		if day.Source == domain.SourceUser {
			continue
		}
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= len(days) || days[j].Source != domain.SourceUser {
				continue
			}
			if title, loc, ok := sharedActivity(day, days[j]); ok {
				return &domain.ContinuityViolation{
					Detail: fmt.Sprintf("generated day %s repeats %q at %q from adjacent day %s",
						day.Date, title, loc, days[j].Date),
				}
			}
		}
	}
	return nil
}

func sharedActivity(a, b domain.ItineraryDay) (title, location string, found bool) {
	seen := make(map[string]domain.Activity, len(b.Activities))
	for _, act := range b.Activities {
		seen[activityKey(act)] = act
	}
	for _, act := range a.Activities {
		if match, ok := seen[activityKey(act)]; ok {
			return match.Title, match.Location, true
		}
	}
	return "", "", false
}

func activityKey(a domain.Activity) string {
	return strings.ToLower(a.Title) + "\x00" + strings.ToLower(a.Location)
}
