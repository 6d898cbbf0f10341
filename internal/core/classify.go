package core

import "time"

// InCurrentWeek reports whether date falls in the Sunday-to-Saturday week containing now.
// Dates are read as local calendar days in now's location.
func InCurrentWeek(date string, now time.Time) bool {
	loc := now.Location()
	dt, ok := calendarDate(date, loc)
	if !ok {
		return false
	}
	start, end := WeekBounds(now)
	return !dt.Before(start) && !dt.After(end)
}

// InCurrentMonth reports whether date shares now's year and month.
func InCurrentMonth(date string, now time.Time) bool {
	dt, ok := calendarDate(date, now.Location())
	if !ok {
		return false
	}
	return dt.Year() == now.Year() && dt.Month() == now.Month()
}

// WeekBounds returns the first instant of the Sunday that starts now's week
// and the last millisecond of the following Saturday.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	first := d - int(now.Weekday())
	start := time.Date(y, m, first, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m, first+6, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}
