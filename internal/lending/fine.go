package lending

import (
	"math"
	"time"

	"booklend/internal/platform/dateenc"
)

// FinePerDay is the fixed late-return penalty per whole day, in currency units.
const FinePerDay = 5.0

// Fine computes the late penalty for a due date as of today. It is a pure
// function of its two inputs: zero when the due date is today or later,
// otherwise days late times FinePerDay, rounded to two decimals.
func Fine(returnDate, today time.Time) float64 {
	daysLate := dateenc.DaysBetween(returnDate, today)
	if daysLate <= 0 {
		return 0
	}
	return math.Round(float64(daysLate)*FinePerDay*100) / 100
}
