package domain

import "time"

// ActivityCategory classifies an activity on the itinerary timeline.
type ActivityCategory string

const (
	CategorySightseeing ActivityCategory = "sightseeing"
	CategoryFood        ActivityCategory = "food"
	CategoryCulture     ActivityCategory = "culture"
	CategoryAdventure   ActivityCategory = "adventure"
	CategoryLeisure     ActivityCategory = "leisure"
)

// ValidCategories is the closed set of activity categories.
var ValidCategories = map[ActivityCategory]bool{
	CategorySightseeing: true,
	CategoryFood:        true,
	CategoryCulture:     true,
	CategoryAdventure:   true,
	CategoryLeisure:     true,
}

// TripPace describes how densely packed a trip should be.
type TripPace string

const (
	PaceRelaxed  TripPace = "relaxed"
	PaceModerate TripPace = "moderate"
	PacePacked   TripPace = "packed"
)

// ValidPaces is the closed set of trip paces.
var ValidPaces = map[TripPace]bool{
	PaceRelaxed:  true,
	PaceModerate: true,
	PacePacked:   true,
}

// TransitMode is how travellers move between consecutive activities.
type TransitMode string

const (
	ModeWalk  TransitMode = "walk"
	ModeBus   TransitMode = "bus"
	ModeTrain TransitMode = "train"
	ModeTaxi  TransitMode = "taxi"
	ModeOther TransitMode = "other"
)

// ValidTransitModes is the closed set of transit modes.
var ValidTransitModes = map[TransitMode]bool{
	ModeWalk:  true,
	ModeBus:   true,
	ModeTrain: true,
	ModeTaxi:  true,
	ModeOther: true,
}

// DaySource records how an itinerary day was produced.
type DaySource string

const (
	SourceUser      DaySource = "user"
	SourceGenerated DaySource = "generated"
	SourceRefined   DaySource = "refined"
)

// NoteAuthor identifies who wrote an activity note.
type NoteAuthor string

const (
	NoteAuthorAgent NoteAuthor = "agent"
	NoteAuthorUser  NoteAuthor = "user"
)

// Coordinates is a (lat, lon) pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Destination is a place a trip goes to.
type Destination struct {
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	IATACode    string       `json:"iata_code,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// TripPreferences captures the user's stated preferences for a trip request.
type TripPreferences struct {
	TravelerCount      int      `json:"traveler_count"`
	BudgetUSD          *float64 `json:"budget_usd,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	AccessibilityNeeds []string `json:"accessibility_needs,omitempty"`
	Pace               TripPace `json:"pace"`
}

// DefaultPreferences returns the zero-request preferences: one traveller
// at a moderate pace.
func DefaultPreferences() TripPreferences {
	return TripPreferences{TravelerCount: 1, Pace: PaceModerate}
}

// ActivityNote is a note attached to an activity, authored by the agent
// or the user.
type ActivityNote struct {
	Author  NoteAuthor `json:"author"`
	Content string     `json:"content"`
	Links   []string   `json:"links,omitempty"`
	Tags    []string   `json:"tags,omitempty"`
}

// Activity is a time-blocked item on an itinerary day. Immutable value
// object: edits produce a new Activity.
type Activity struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DurationHours    float64          `json:"duration_hours"`
	Category         ActivityCategory `json:"category"`
	StartTime        string           `json:"start_time,omitempty"` // "HH:MM" 24-hour
	EndTime          string           `json:"end_time,omitempty"`
	EstimatedCostUSD *float64         `json:"estimated_cost_usd,omitempty"`
	Location         string           `json:"location,omitempty"`
	Coordinates      *Coordinates     `json:"coordinates,omitempty"`
	Notes            []ActivityNote   `json:"notes,omitempty"`
}

// TravelSegment is transit between two consecutive activities within a day.
type TravelSegment struct {
	Mode             TransitMode `json:"mode"`
	DurationMinutes  int         `json:"duration_minutes"`
	Description      string      `json:"description"`
	EstimatedCostUSD *float64    `json:"estimated_cost_usd,omitempty"`
}

// ItineraryDay is one planned day. "Mutating" a day means constructing a
// new one; days already attached to an itinerary are never edited in place.
type ItineraryDay struct {
	Date           Date            `json:"date"`
	Activities     []Activity      `json:"activities"`
	TravelSegments []TravelSegment `json:"travel_segments,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Source         DaySource       `json:"source"`
}

// Clone returns a deep copy of the day so callers can share days across
// itineraries without aliasing slices.
func (d ItineraryDay) Clone() ItineraryDay {
	out := d
	out.Activities = append([]Activity(nil), d.Activities...)
	for i, a := range out.Activities {
		out.Activities[i].Notes = append([]ActivityNote(nil), a.Notes...)
	}
	out.TravelSegments = append([]TravelSegment(nil), d.TravelSegments...)
	return out
}

// Flight is a suggested flight. Informational only: there is no booking.
type Flight struct {
	Airline          string    `json:"airline"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	DurationHours    float64   `json:"duration_hours"`
	CabinClass       string    `json:"cabin_class,omitempty"`
	EstimatedCostUSD *float64  `json:"estimated_cost_usd,omitempty"`
}

// Accommodation is suggested lodging. Informational only.
type Accommodation struct {
	Name           string       `json:"name"`
	StarRating     *float64     `json:"star_rating,omitempty"`
	NightlyRateUSD *float64     `json:"nightly_rate_usd,omitempty"`
	TotalCostUSD   *float64     `json:"total_cost_usd,omitempty"`
	CheckIn        Date         `json:"check_in"`
	CheckOut       Date         `json:"check_out"`
	Description    string       `json:"description,omitempty"`
	Location       string       `json:"location,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
}

// Itinerary is the root aggregate for one planned trip.
type Itinerary struct {
	ID             string          `json:"id,omitempty"`
	Destination    Destination     `json:"destination"`
	StartDate      Date            `json:"start_date"`
	EndDate        Date            `json:"end_date"`
	Preferences    TripPreferences `json:"preferences"`
	Days           []ItineraryDay  `json:"days"`
	Flights        []Flight        `json:"flights,omitempty"`
	Accommodations []Accommodation `json:"accommodations,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TripDates returns every date in the trip range, inclusive.
func (it Itinerary) TripDates() []Date {
	return DatesBetween(it.StartDate, it.EndDate)
}

// DayFor returns the day planned for the given date, if any.
func (it Itinerary) DayFor(date Date) (ItineraryDay, bool) {
	for _, d := range it.Days {
		if d.Date.Equal(date) {
			return d, true
		}
	}
	return ItineraryDay{}, false
}

// UserProfile is the durable per-installation preference summary built
// from saved trips. Preference fields have set semantics; TripCount is a
// monotonic counter.
type UserProfile struct {
	FavouriteDestinationTypes []string  `json:"favourite_destination_types"`
	FavouriteCategories       []string  `json:"favourite_categories"`
	PreferredPace             TripPace  `json:"preferred_pace"`
	TypicalBudgetUSD          *float64  `json:"typical_budget_usd,omitempty"`
	PastDestinations          []string  `json:"past_destinations"`
	TripCount                 int       `json:"trip_count"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// DefaultProfile is the zero-valued profile used before the first save.
func DefaultProfile() UserProfile {
	return UserProfile{PreferredPace: PaceModerate}
}
