// Package export renders itineraries for sharing: markdown for
// terminals and chat, HTML for the browser.
package export

import (
	"fmt"
	"strings"

	"github.com/atlastravel/atlas/internal/domain"
)

// Markdown renders the itinerary as a shareable markdown document.
func Markdown(it domain.Itinerary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s", it.Destination.Name)
	if it.Destination.Country != "" {
		fmt.Fprintf(&b, ", %s", it.Destination.Country)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**%s — %s** · %d traveller(s) · %s pace\n\n",
		it.StartDate, it.EndDate, it.Preferences.TravelerCount, it.Preferences.Pace)
	if it.Preferences.BudgetUSD != nil {
		fmt.Fprintf(&b, "Budget: $%.0f\n\n", *it.Preferences.BudgetUSD)
	}

	writeFlights(&b, it.Flights)
	writeAccommodations(&b, it.Accommodations)

	for i, day := range it.Days {
		fmt.Fprintf(&b, "## Day %d — %s\n\n", i+1, day.Date)
		if day.Notes != "" {
			fmt.Fprintf(&b, "> %s\n\n", day.Notes)
		}
		for j, act := range day.Activities {
			writeActivity(&b, act)
			if j < len(day.TravelSegments) {
				seg := day.TravelSegments[j]
				fmt.Fprintf(&b, "  ↓ _%s, %d min — %s_\n", seg.Mode, seg.DurationMinutes, seg.Description)
			}
		}
		if cost := dayCost(day); cost > 0 {
			fmt.Fprintf(&b, "\nDaily estimate: $%.0f\n", cost)
		}
		b.WriteString("\n")
	}

	if total := TotalCost(it); total > 0 {
		fmt.Fprintf(&b, "---\n\n**Estimated trip total: $%.0f**\n", total)
	}
	return b.String()
}

func writeActivity(b *strings.Builder, act domain.Activity) {
	b.WriteString("- ")
	if act.StartTime != "" && act.EndTime != "" {
		fmt.Fprintf(b, "**%s–%s** ", act.StartTime, act.EndTime)
	}
	fmt.Fprintf(b, "**%s** (%s", act.Title, act.Category)
	if act.EstimatedCostUSD != nil {
		fmt.Fprintf(b, ", $%.0f", *act.EstimatedCostUSD)
	}
	b.WriteString(")")
	if act.Location != "" {
		fmt.Fprintf(b, " — %s", act.Location)
	}
	b.WriteString("\n")
	if act.Description != "" {
		fmt.Fprintf(b, "  %s\n", act.Description)
	}
	for _, note := range act.Notes {
		fmt.Fprintf(b, "  > %s: %s\n", note.Author, note.Content)
	}
}

func writeFlights(b *strings.Builder, flights []domain.Flight) {
	if len(flights) == 0 {
		return
	}
	b.WriteString("## Flights\n\n")
	for _, f := range flights {
		fmt.Fprintf(b, "- %s %s: %s → %s, %.1fh", f.Airline, f.FlightNumber,
			f.DepartureAirport, f.ArrivalAirport, f.DurationHours)
		if f.EstimatedCostUSD != nil {
			fmt.Fprintf(b, " ($%.0f)", *f.EstimatedCostUSD)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeAccommodations(b *strings.Builder, stays []domain.Accommodation) {
	if len(stays) == 0 {
		return
	}
	b.WriteString("## Accommodation\n\n")
	for _, a := range stays {
		fmt.Fprintf(b, "- **%s** (%s → %s)", a.Name, a.CheckIn, a.CheckOut)
		if a.TotalCostUSD != nil {
			fmt.Fprintf(b, " — $%.0f total", *a.TotalCostUSD)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func dayCost(day domain.ItineraryDay) float64 {
	var total float64
	for _, act := range day.Activities {
		if act.EstimatedCostUSD != nil {
			total += *act.EstimatedCostUSD
		}
	}
	for _, seg := range day.TravelSegments {
		if seg.EstimatedCostUSD != nil {
			total += *seg.EstimatedCostUSD
		}
	}
	return total
}

// TotalCost sums flights, lodging, and daily estimates.
func TotalCost(it domain.Itinerary) float64 {
	var total float64
	for _, f := range it.Flights {
		if f.EstimatedCostUSD != nil {
			total += *f.EstimatedCostUSD
		}
	}
	for _, a := range it.Accommodations {
		if a.TotalCostUSD != nil {
			total += *a.TotalCostUSD
		}
	}
	for _, day := range it.Days {
		total += dayCost(day)
	}
	return total
}
