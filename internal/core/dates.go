package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the canonical stored date format.
const DateLayout = "2006-01-02"

// InvalidDatePreview is shown while typing digits that do not form a date.
const InvalidDatePreview = "Invalid date"

// NormalizeDate converts loosely typed date input into a canonical YYYY-MM-DD date.
//
// Every non-digit character is dropped first. Eight digits are read as YYYYMMDD
// when the year is within [1900, 2100] and month/day are in range; otherwise, and
// for any other input of at least five digits, the last four digits are the year,
// the two digits before them the day and whatever precedes the day the month.
// Only month [1,12] and day [1,31] are range-checked, so 2024-02-31 is accepted.
//
// Examples:
//
//	NormalizeDate("20240315") -> "2024-03-15", true
//	NormalizeDate("3/15/2024") -> "2024-03-15", true
//	NormalizeDate("12024")    -> "2024-01-01", true
//	NormalizeDate("125")      -> "", false
func NormalizeDate(input string) (string, bool) {
	s := digitsOnly(input)
	if s == "" {
		return "", false
	}

	if len(s) == 8 {
		year, month, day := s[:4], s[4:6], s[6:8]
		if y, err := strconv.Atoi(year); err == nil && y >= 1900 && y <= 2100 {
			if m, d, ok := monthDay(month, day); ok {
				return formatDate(year, m, d), true
			}
		}
	}

	if len(s) < 5 {
		return "", false
	}

	year := s[len(s)-4:]
	rest := s[:len(s)-4]
	day := rest[max(0, len(rest)-2):]
	month := rest[:len(rest)-len(day)]
	if month == "" {
		// a lone leftover digit is both the month and the day
		month = rest[:1]
	}

	m, d, ok := monthDay(month, day)
	if !ok {
		return "", false
	}
	return formatDate(year, m, d), true
}

// DatePreview describes what NormalizeDate makes of the input while the user types:
// the canonical date, InvalidDatePreview when digits are present but unusable,
// or "" when there are no digits at all.
func DatePreview(input string) string {
	if iso, ok := NormalizeDate(input); ok {
		return iso
	}
	if digitsOnly(input) != "" {
		return InvalidDatePreview
	}
	return ""
}

// DateDigits strips a stored date back to the digits the user would type.
func DateDigits(date string) string {
	return digitsOnly(date)
}

// IsCanonicalDate reports whether s has the YYYY-MM-DD shape.
func IsCanonicalDate(s string) bool {
	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatShortDate renders a canonical date as MM/DD for chart labels.
func FormatShortDate(date string) string {
	if date == "" {
		return "No date"
	}
	if IsCanonicalDate(date) {
		return date[5:7] + "/" + date[8:10]
	}
	return date
}

// calendarDate reads a canonical date as midnight in loc. Out of range days
// roll over into the next month the way time.Date does.
func calendarDate(date string, loc *time.Location) (time.Time, bool) {
	if !IsCanonicalDate(date) {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(date[:4])
	m, _ := strconv.Atoi(date[5:7])
	d, _ := strconv.Atoi(date[8:10])
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}

func monthDay(month, day string) (int, int, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return 0, 0, false
	}
	return m, d, true
}

func formatDate(year string, month, day int) string {
	return fmt.Sprintf("%s-%02d-%02d", year, month, day)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
