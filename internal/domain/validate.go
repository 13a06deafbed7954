package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses a 24-hour "HH:MM" string and returns minutes since
// midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// TimeWindow returns the [start, end) minutes of an activity's time block.
// ok is false when either endpoint is missing or unparseable.
func (a Activity) TimeWindow() (start, end int, ok bool) {
	if a.StartTime == "" || a.EndTime == "" {
		return 0, 0, false
	}
	s, err := ParseClock(a.StartTime)
	if err != nil {
		return 0, 0, false
	}
	e, err := ParseClock(a.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return s, e, true
}

// OverlappingActivities returns the titles of activity pairs on the day
// whose time windows overlap. Activities without both endpoints are
// ignored.
func (d ItineraryDay) OverlappingActivities() [][2]string {
	type window struct {
		title      string
		start, end int
	}
	var windows []window
	for _, a := range d.Activities {
		if s, e, ok := a.TimeWindow(); ok {
			windows = append(windows, window{a.Title, s, e})
		}
	}
	var overlaps [][2]string
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].start < windows[j].end && windows[j].start < windows[i].end {
				overlaps = append(overlaps, [2]string{windows[i].title, windows[j].title})
			}
		}
	}
	return overlaps
}
