// Package timerange parses the inclusive [start, end] query window used
// by the sensor-data endpoints.
package timerange

import "time"

// Range is an inclusive time window. A nil bound is open on that side.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Parse interprets the two bounds as RFC3339 instants. An empty string
// leaves that side of the window open. A present but malformed bound
// yields ok=false: callers treat the window as matching nothing rather
// than failing the request.
func Parse(start, end string) (Range, bool) {
	var r Range
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return Range{}, false
		}
		r.Start = &t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return Range{}, false
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		// Inverted window: well-formed but can never match.
		return Range{}, false
	}
	return r, true
}
