package core

import (
	"testing"
	"time"
)

// Wednesday 13 March 2024, mid-afternoon.
var wednesday = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local)

func TestInCurrentWeek(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2024-03-11", true},  // two days before
		{"2024-03-05", false}, // eight days before
		{"2024-03-10", true},  // Sunday start
		{"2024-03-16", true},  // Saturday end
		{"2024-03-09", false},
		{"2024-03-17", false},
		{"2024-03-13", true},
		{"", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		if got := InCurrentWeek(tc.date, wednesday); got != tc.want {
			t.Errorf("InCurrentWeek(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestInCurrentWeekOnSunday(t *testing.T) {
	sunday := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local)
	if !InCurrentWeek("2024-03-10", sunday) {
		t.Fatalf("sunday should belong to its own week")
	}
	if InCurrentWeek("2024-03-09", sunday) {
		t.Fatalf("previous saturday should not belong to the week")
	}
}

func TestInCurrentWeekAcrossMonths(t *testing.T) {
	// Friday 1 March 2024: the week began on Sunday 25 February.
	friday := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)
	if !InCurrentWeek("2024-02-25", friday) {
		t.Fatalf("expected 2024-02-25 in week")
	}
	if !InCurrentWeek("2024-03-02", friday) {
		t.Fatalf("expected 2024-03-02 in week")
	}
	if InCurrentWeek("2024-03-03", friday) {
		t.Fatalf("expected 2024-03-03 outside week")
	}
}

func TestInCurrentMonth(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2024-03-01", true},
		{"2024-03-31", true},
		{"2024-03-13", true},
		{"2024-02-29", false},
		{"2024-04-01", false},
		{"2023-03-13", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := InCurrentMonth(tc.date, wednesday); got != tc.want {
			t.Errorf("InCurrentMonth(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestWeekBounds(t *testing.T) {
	start, end := WeekBounds(wednesday)
	if start.Weekday() != time.Sunday || start.Day() != 10 || start.Hour() != 0 {
		t.Fatalf("unexpected start %v", start)
	}
	if end.Weekday() != time.Saturday || end.Day() != 16 || end.Nanosecond() != int(999*time.Millisecond) {
		t.Fatalf("unexpected end %v", end)
	}
}
