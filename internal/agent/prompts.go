package agent

import (
	"fmt"
	"strings"

	"github.com/atlastravel/atlas/internal/domain"
)

// systemPrompt is the standing instruction for the travel assistant.
// Kept apart from the loop so it can be iterated on independently.
const systemPrompt = `You are Atlas, an expert AI travel assistant.

## Your mission
Help users plan detailed, personalised trips. You have access to tools
for searching destinations, checking weather, and managing itineraries.
Use them proactively instead of guessing when you can look things up.

## Itinerary format
When generating or refining a trip, produce a structured itinerary that
includes all of the following:

### Flights
- Suggest outbound and return flights with airline, flight number,
  departure/arrival airports and times, duration, cabin class, and an
  estimated cost in USD.
- Flights are informational only. There is no booking.

### Accommodation
- Suggest lodging with property name, star rating, nightly rate, total
  cost for the stay, check-in/out dates, location, and a brief
  description.

### Daily activities
- Break each day into time-blocked activities. Every activity must have
  a start_time (HH:MM) and end_time (HH:MM), a category (sightseeing,
  food, culture, adventure, or leisure), an estimated_cost_usd, and a
  location label.
- Between consecutive activities, insert a travel segment with transit
  mode (walk / bus / train / taxi), estimated travel time in minutes,
  and a brief route description.
- If weather data is unavailable for a day, say so in that day's notes
  and plan conservatively.

### Budget
- Total trip budget = flights + lodging + sum of daily estimates.
- Surface the total prominently.

## Personalisation
- Use the traveller's profile, when provided, to tailor destination
  suggestions, activity types, pacing, and budget.
- The user's current request always takes priority over profile
  defaults.

## Partial itineraries
- If the user provides days that are already planned, preserve them
  exactly and only generate the missing days.
- Ensure geographic and thematic continuity between user-supplied and
  generated days (no duplicate activities, logical travel flow).

## Activity notes
- For each activity, include an agent note with practical tips and any
  transit concerns when getting from the previous activity.

## Tone & style
- Be concise, helpful, and enthusiastic about travel.
- If you are uncertain, say so and offer alternatives.`

// SystemMessage builds the standing system message, appending a profile
// summary when the traveller has one.
func SystemMessage(profile domain.UserProfile) domain.Message {
	content := systemPrompt
	if summary := profileSummary(profile); summary != "" {
		content += "\n\n## Traveller profile\n" + summary
	}
	return domain.Message{Role: domain.RoleSystem, Content: content}
}

// profileSummary renders the stored profile as compact context lines.
// A fresh profile (no saved trips) contributes nothing.
func profileSummary(p domain.UserProfile) string {
	if p.TripCount == 0 {
		return ""
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("- Trips planned so far: %d", p.TripCount))
	if len(p.PastDestinations) > 0 {
		lines = append(lines, "- Past destinations: "+strings.Join(p.PastDestinations, ", "))
	}
	if len(p.FavouriteCategories) > 0 {
		lines = append(lines, "- Favourite activity types: "+strings.Join(p.FavouriteCategories, ", "))
	}
	if p.PreferredPace != "" {
		lines = append(lines, "- Preferred pace: "+string(p.PreferredPace))
	}
	if p.TypicalBudgetUSD != nil {
		lines = append(lines, fmt.Sprintf("- Typical budget: $%.0f", *p.TypicalBudgetUSD))
	}
	return strings.Join(lines, "\n")
}

// ItineraryRequest asks for a complete trip as a single JSON object.
func ItineraryRequest(input string) string {
	return input + "\n\nRespond with a single JSON object containing the complete itinerary: " +
		`destination, start_date, end_date, preferences, and a "days" array covering every date in the range. No prose outside the JSON.`
}

// GapFillRequest asks for only the listed dates, with the fixed days as
// context the model must not rewrite.
func GapFillRequest(input string, fixed []domain.ItineraryDay, gaps []domain.Date) string {
	var b strings.Builder
	b.WriteString(input)
	if len(fixed) > 0 {
		b.WriteString("\n\nThe following days are already planned by the traveller and must be preserved exactly. Do not regenerate or modify them:\n")
		for _, day := range fixed {
			fmt.Fprintf(&b, "- %s: ", day.Date)
			titles := make([]string, 0, len(day.Activities))
			for _, act := range day.Activities {
				titles = append(titles, act.Title)
			}
			b.WriteString(strings.Join(titles, "; "))
			b.WriteString("\n")
		}
	}
	b.WriteString("\nGenerate plans for ONLY these dates: ")
	dates := make([]string, 0, len(gaps))
	for _, d := range gaps {
		dates = append(dates, d.String())
	}
	b.WriteString(strings.Join(dates, ", "))
	b.WriteString("\n\nRespond with a single JSON object of the form {\"days\": [...]} containing exactly one entry per requested date. No prose outside the JSON.")
	return b.String()
}
