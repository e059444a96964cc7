// Package dateenc encodes calendar dates in the short MM/DD/YY form used
// across the service boundary and in stored seed data. Two-digit years
// resolve to 1969-2068, so round trips are lossless inside that window.
package dateenc

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "01/02/06"

// Parse decodes an MM/DD/YY string into a UTC-midnight date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Midnight(t), nil
}

// Format encodes a date as MM/DD/YY.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Midnight truncates t to its calendar date at UTC midnight. All date
// arithmetic in the service happens on such normalized values.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)) / (24 * time.Hour))
}
