// Package workday maps dates onto a rolling Monday-Friday window used by the timeline.
package workday

import "time"

// DefaultWindowSize is the number of business days shown on the timeline
const DefaultWindowSize = 45

// lookback is how many calendar days before the anchor the window starts
const lookback = 7

// Sentinel positions for dates that cannot be placed inside the window
const (
	NotPlaced = -100.0
	OffLeft   = -5.0
	OffRight  = 105.0
)

// Window is an ordered run of business days, each at midnight
type Window []time.Time

// IsWorkday reports whether t falls Monday through Friday
func IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Midnight truncates t to the start of its calendar day in its own location
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BuildWindow collects total business days starting one week before anchor
func BuildWindow(anchor time.Time, total int) Window {
	if total <= 0 {
		return Window{}
	}
	days := make(Window, 0, total)
	current := Midnight(anchor).AddDate(0, 0, -lookback)
	for len(days) < total {
		if IsWorkday(current) {
			days = append(days, current)
		}
		current = current.AddDate(0, 0, 1)
	}
	return days
}

// First returns the earliest day of the window
func (w Window) First() time.Time {
	if len(w) == 0 {
		return time.Time{}
	}
	return w[0]
}

// Last returns the latest day of the window
func (w Window) Last() time.Time {
	if len(w) == 0 {
		return time.Time{}
	}
	return w[len(w)-1]
}

// Index returns the position of date's calendar day in the window, or -1
func (w Window) Index(date time.Time) int {
	y, m, d := date.Date()
	for i, day := range w {
		dy, dm, dd := day.Date()
		if dy == y && dm == m && dd == d {
			return i
		}
	}
	return -1
}

// Position places date on a 0..100 scale across the window. Dates outside the window
// get OffLeft or OffRight and a nil date gets NotPlaced. A weekend inside the window
// takes the position of the following business day.
func (w Window) Position(date *time.Time) float64 {
	if date == nil {
		return NotPlaced
	}
	if len(w) == 0 {
		return OffRight
	}

	target := sameDay(*date, w[0].Location())
	if target.Before(w.First()) {
		return OffLeft
	}
	if target.After(w.Last()) {
		return OffRight
	}

	for !IsWorkday(target) {
		target = target.AddDate(0, 0, 1)
	}
	idx := w.Index(target)
	if idx < 0 {
		return OffRight
	}
	return float64(idx) / float64(len(w)) * 100
}

// Shift moves date by delta business days, stepping one calendar day at a time and
// only counting Monday-Friday. The time of day is kept.
func Shift(date time.Time, delta int) time.Time {
	step := 1
	remaining := delta
	if delta < 0 {
		step = -1
		remaining = -delta
	}

	current := date
	for remaining > 0 {
		current = current.AddDate(0, 0, step)
		if IsWorkday(current) {
			remaining--
		}
	}
	return current
}

// sameDay reinterprets t's calendar date as midnight in loc
func sameDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
