package pairing

import "time"

// WeekStart returns the Monday 00:00 UTC that opens the given ISO week.
func WeekStart(year, week int) time.Time {
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := jan4.AddDate(0, 0, 1-weekday)
	return monday.AddDate(0, 0, (week-1)*7)
}

// WeekEnd returns the instant the ISO week closes (the following Monday
// 00:00 UTC). A week is complete once this is strictly before now.
func WeekEnd(year, week int) time.Time {
	return WeekStart(year, week).AddDate(0, 0, 7)
}

// WeekOf returns the ISO year and week containing t.
func WeekOf(t time.Time) (year, week int) {
	return t.UTC().ISOWeek()
}
