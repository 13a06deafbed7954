package schema

import (
	"strings"
	"testing"

	"github.com/atlastravel/atlas/internal/domain"
)

const validItineraryJSON = `{
  "destination": {"name": "Kyoto", "country": "Japan"},
  "start_date": "2026-04-01",
  "end_date": "2026-04-03",
  "preferences": {"traveler_count": 2, "pace": "moderate"},
  "days": [
    {
      "date": "2026-04-01",
      "source": "generated",
      "activities": [
        {"title": "Fushimi Inari", "description": "Shrine hike", "duration_hours": 3,
         "category": "sightseeing", "start_time": "09:00", "end_time": "12:00"},
        {"title": "Nishiki Market", "description": "Lunch", "duration_hours": 1.5,
         "category": "food", "start_time": "12:30", "end_time": "14:00"}
      ],
      "travel_segments": [
        {"mode": "train", "duration_minutes": 20, "description": "JR Nara line"}
      ]
    },
    {
      "date": "2026-04-02",
      "source": "generated",
      "activities": [
        {"title": "Arashiyama", "description": "Bamboo grove", "duration_hours": 4, "category": "sightseeing"}
      ]
    },
    {
      "date": "2026-04-03",
      "source": "generated",
      "activities": [
        {"title": "Gion walk", "description": "Evening stroll", "duration_hours": 2, "category": "culture"}
      ]
    }
  ]
}`

func TestParseItineraryValid(t *testing.T) {
	it, diags := ParseItinerary(validItineraryJSON)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if it.Destination.Name != "Kyoto" || len(it.Days) != 3 {
		t.Fatalf("parsed itinerary wrong shape: %+v", it)
	}
}

func TestParseItineraryStripsFences(t *testing.T) {
	fenced := "```json\n" + validItineraryJSON + "\n```"
	if _, diags := ParseItinerary(fenced); len(diags) != 0 {
		t.Fatalf("fenced payload rejected: %v", diags)
	}
}

func TestParseItineraryNormalizesEnumCase(t *testing.T) {
	raw := strings.Replace(validItineraryJSON, `"category": "food"`, `"category": "Food"`, 1)
	raw = strings.Replace(raw, `"pace": "moderate"`, `"pace": "MODERATE"`, 1)
	it, diags := ParseItinerary(raw)
	if len(diags) != 0 {
		t.Fatalf("case variants should normalize, got: %v", diags)
	}
	if it.Preferences.Pace != domain.PaceModerate {
		t.Fatalf("pace = %q after normalization", it.Preferences.Pace)
	}
}

func TestParseItineraryMalformedJSON(t *testing.T) {
	_, diags := ParseItinerary(`{"destination": `)
	if len(diags) != 1 || !strings.Contains(diags[0], "not valid JSON") {
		t.Fatalf("diags = %v", diags)
	}
}

func TestValidateItineraryViolations(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(s string) string
		wantSub string
	}{
		{
			"end before start",
			func(s string) string { return strings.Replace(s, `"end_date": "2026-04-03"`, `"end_date": "2026-03-30"`, 1) },
			"must be after start_date",
		},
		{
			"zero duration",
			func(s string) string { return strings.Replace(s, `"duration_hours": 4`, `"duration_hours": 0`, 1) },
			"duration_hours",
		},
		{
			"unknown category",
			func(s string) string { return strings.Replace(s, `"category": "culture"`, `"category": "shopping"`, 1) },
			"category",
		},
		{
			"bad clock",
			func(s string) string { return strings.Replace(s, `"start_time": "09:00"`, `"start_time": "9am"`, 1) },
			"start_time",
		},
		{
			"start after end",
			func(s string) string { return strings.Replace(s, `"start_time": "12:30"`, `"start_time": "15:00"`, 1) },
			"must be before end_time",
		},
		{
			"duplicate date",
			func(s string) string { return strings.Replace(s, `"date": "2026-04-02"`, `"date": "2026-04-01"`, 1) },
			"duplicate date",
		},
		{
			"date outside range",
			func(s string) string { return strings.Replace(s, `"date": "2026-04-02"`, `"date": "2026-05-02"`, 1) },
			"outside",
		},
		{
			"zero travelers",
			func(s string) string { return strings.Replace(s, `"traveler_count": 2`, `"traveler_count": 0`, 1) },
			"traveler_count",
		},
		{
			"segment count mismatch",
			func(s string) string {
				return strings.Replace(s,
					`"travel_segments": [
        {"mode": "train", "duration_minutes": 20, "description": "JR Nara line"}
      ]`,
					`"travel_segments": [
        {"mode": "train", "duration_minutes": 20, "description": "JR Nara line"},
        {"mode": "walk", "duration_minutes": 5, "description": "backtrack"}
      ]`, 1)
			},
			"travel_segments",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, diags := ParseItinerary(tc.mutate(validItineraryJSON))
			if len(diags) == 0 {
				t.Fatal("expected diagnostics, got none")
			}
			for _, d := range diags {
				if strings.Contains(d, tc.wantSub) {
					return
				}
			}
			t.Fatalf("no diagnostic mentions %q: %v", tc.wantSub, diags)
		})
	}
}

func TestValidateOverlappingActivities(t *testing.T) {
	raw := strings.Replace(validItineraryJSON, `"start_time": "12:30", "end_time": "14:00"`,
		`"start_time": "11:00", "end_time": "13:00"`, 1)
	_, diags := ParseItinerary(raw)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "overlapping time windows") {
			found = true
		}
	}
	if !found {
		t.Fatalf("overlap not reported: %v", diags)
	}
}

func TestParseDays(t *testing.T) {
	raw := `{"days": [
      {"date": "2026-04-03", "activities": [
        {"title": "Gion walk", "description": "Stroll", "duration_hours": 2, "category": "Culture"}
      ]}
    ]}`
	days, diags := ParseDays(raw)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(days) != 1 || days[0].Activities[0].Category != domain.CategoryCulture {
		t.Fatalf("parsed days wrong: %+v", days)
	}
}

func TestParseDaysEmpty(t *testing.T) {
	if _, diags := ParseDays(`{"days": []}`); len(diags) == 0 {
		t.Fatal("empty days array must be rejected")
	}
}

func TestRepairPrompt(t *testing.T) {
	prompt := RepairPrompt([]string{"end_date must be after start_date"}, false)
	if !strings.Contains(prompt, "end_date must be after start_date") {
		t.Fatalf("prompt does not enumerate violation: %s", prompt)
	}
	if !strings.Contains(prompt, "complete itinerary") {
		t.Fatalf("full-itinerary prompt wrong shape: %s", prompt)
	}

	dayPrompt := RepairPrompt([]string{"days[0]: date is required (YYYY-MM-DD)"}, true)
	if !strings.Contains(dayPrompt, `{"days": [...]}`) {
		t.Fatalf("day-subset prompt wrong shape: %s", dayPrompt)
	}
}

func TestRepairPromptTruncates(t *testing.T) {
	diags := make([]string, 20)
	for i := range diags {
		diags[i] = "problem"
	}
	prompt := RepairPrompt(diags, false)
	if !strings.Contains(prompt, "and 8 more") {
		t.Fatalf("long diagnostic list not truncated: %s", prompt)
	}
}
