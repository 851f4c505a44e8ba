package pairing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"league-companion/internal/pairing"
)

func TestWeekStartKnownDates(t *testing.T) {
	// ISO week 1 of 2024 starts Monday 2024-01-01.
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), pairing.WeekStart(2024, 1))
	// ISO week 1 of 2026 starts Monday 2025-12-29 (Jan 4th rule).
	assert.Equal(t, time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), pairing.WeekStart(2026, 1))
	// Week 53 exists in 2020.
	assert.Equal(t, time.Date(2020, time.December, 28, 0, 0, 0, 0, time.UTC), pairing.WeekStart(2020, 53))
}

func TestWeekEndIsFollowingMonday(t *testing.T) {
	start := pairing.WeekStart(2024, 10)
	end := pairing.WeekEnd(2024, 10)
	assert.Equal(t, start.AddDate(0, 0, 7), end)
	assert.Equal(t, time.Monday, end.Weekday())
}

func TestWeekOfRoundTrips(t *testing.T) {
	for _, year := range []int{2020, 2023, 2024, 2026} {
		for week := 1; week <= 52; week++ {
			y, w := pairing.WeekOf(pairing.WeekStart(year, week))
			assert.Equal(t, year, y, "year %d week %d", year, week)
			assert.Equal(t, week, w, "year %d week %d", year, week)
		}
	}
}

func TestWeekOfMidWeekInstant(t *testing.T) {
	// A Thursday afternoon belongs to the same week as its Monday.
	thursday := pairing.WeekStart(2024, 20).AddDate(0, 0, 3).Add(15 * time.Hour)
	y, w := pairing.WeekOf(thursday)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 20, w)
}
