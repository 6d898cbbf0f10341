package core

import (
	"fmt"
	"strings"
	"time"
)

// FilterCounts holds how many records each filter mode would show.
type FilterCounts struct {
	All   int `json:"all"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// ParseFilterMode reads a filter mode, defaulting to FilterAll when s is empty.
func ParseFilterMode(s string) (FilterMode, error) {
	mode := FilterMode(strings.ToLower(strings.TrimSpace(s)))
	if mode == "" {
		return FilterAll, nil
	}
	if !mode.Valid() {
		return FilterAll, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	return mode, nil
}

// Valid reports whether the mode is one of the known modes.
func (m FilterMode) Valid() bool {
	switch m {
	case FilterAll, FilterWeek, FilterMonth:
		return true
	default:
		return false
	}
}

// Label is the heading shown above totals for the mode.
func (m FilterMode) Label() string {
	switch m {
	case FilterWeek:
		return "This Week"
	case FilterMonth:
		return "This Month"
	default:
		return "All"
	}
}

// Filter returns the records shown under mode, keeping input order.
// FilterAll returns records untouched; any other mode drops undated records.
func Filter(records []Expense, mode FilterMode, now time.Time) []Expense {
	if mode == FilterAll {
		if records == nil {
			return []Expense{}
		}
		return records
	}
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if !e.Dated() {
			continue
		}
		if matches(e.Date, mode, now) {
			out = append(out, e)
		}
	}
	return out
}

// CountByFilter counts the records each mode would keep.
func CountByFilter(records []Expense, now time.Time) FilterCounts {
	counts := FilterCounts{All: len(records)}
	for _, e := range records {
		if !e.Dated() {
			continue
		}
		if InCurrentWeek(e.Date, now) {
			counts.Week++
		}
		if InCurrentMonth(e.Date, now) {
			counts.Month++
		}
	}
	return counts
}

func matches(date string, mode FilterMode, now time.Time) bool {
	switch mode {
	case FilterWeek:
		return InCurrentWeek(date, now)
	case FilterMonth:
		return InCurrentMonth(date, now)
	default:
		return true
	}
}
