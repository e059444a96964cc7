package lending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFine_ZeroWhenNotOverdue(t *testing.T) {
	today := date(2025, time.June, 10)

	assert.Equal(t, 0.0, Fine(today, today))
	assert.Equal(t, 0.0, Fine(today.AddDate(0, 0, 1), today))
	assert.Equal(t, 0.0, Fine(today.AddDate(1, 0, 0), today))
}

func TestFine_PerDayLate(t *testing.T) {
	today := date(2025, time.June, 10)

	assert.Equal(t, 5.0, Fine(today.AddDate(0, 0, -1), today))
	assert.Equal(t, 15.0, Fine(today.AddDate(0, 0, -3), today))
	assert.Equal(t, 365*FinePerDay, Fine(today.AddDate(-1, 0, 0), today))
}

func TestFine_Deterministic(t *testing.T) {
	today := date(2025, time.June, 10)
	due := date(2025, time.June, 3)

	first := Fine(due, today)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Fine(due, today))
	}
}

func TestFine_IgnoresTimeOfDay(t *testing.T) {
	due := date(2025, time.June, 7)
	lateEvening := time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 15.0, Fine(due, lateEvening))
}
