package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	weekdayShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DailyTotal is one chart column: a day's total split by category.
type DailyTotal struct {
	Date       string                     `json:"date"`
	Total      decimal.Decimal            `json:"total"`
	DayName    string                     `json:"day_name"`
	DayShort   string                     `json:"day_short"`
	Categories map[string]decimal.Decimal `json:"categories"`
}

// Summary bundles everything a view needs for one filter mode.
type Summary struct {
	Filter     FilterMode      `json:"filter"`
	Label      string          `json:"label"`
	Records    []Expense       `json:"records"`
	Total      decimal.Decimal `json:"total"`
	Sum        string          `json:"sum"`
	ByCategory []CategoryTotal `json:"by_category"`
	Daily      []DailyTotal    `json:"daily"`
	Counts     FilterCounts    `json:"counts"`
}

// Summarize filters records by mode relative to now and aggregates the result.
func Summarize(records []Expense, mode FilterMode, now time.Time, currencyCode string) Summary {
	filtered := Filter(records, mode, now)
	total := Sum(filtered)
	return Summary{
		Filter:     mode,
		Label:      mode.Label(),
		Records:    filtered,
		Total:      total,
		Sum:        FormatAmount(total, currencyCode),
		ByCategory: TotalsByCategory(filtered),
		Daily:      DailyTotals(filtered),
		Counts:     CountByFilter(records, now),
	}
}

// Sum adds up the amounts of records.
func Sum(records []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalsByCategory groups records by trimmed category, largest total first.
// Category names match exactly; equal totals keep first-seen order.
func TotalsByCategory(records []Expense) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, e := range records {
		key := strings.TrimSpace(e.Category)
		if key == "" {
			key = OtherCategory
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CategoryTotal{Category: key, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// DailyTotals groups dated records by day and category, earliest day first.
// Undated records cannot be charted and are skipped.
func DailyTotals(records []Expense) []DailyTotal {
	byDate := make(map[string]map[string]decimal.Decimal)
	for _, e := range records {
		if !e.Dated() {
			continue
		}
		cat := e.Category
		if cat == "" {
			cat = OtherCategory
		}
		cats, ok := byDate[e.Date]
		if !ok {
			cats = make(map[string]decimal.Decimal)
			byDate[e.Date] = cats
		}
		cats[cat] = cats[cat].Add(e.Amount)
	}

	out := make([]DailyTotal, 0, len(byDate))
	for date, cats := range byDate {
		total := decimal.Zero
		for _, amt := range cats {
			total = total.Add(amt)
		}
		name, short := weekdayLabels(date)
		out = append(out, DailyTotal{
			Date:       date,
			Total:      total,
			DayName:    name,
			DayShort:   short,
			Categories: cats,
		})
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].Date < out[b].Date
	})
	return out
}

// weekdayLabels falls back to the raw string when date is not a real calendar day.
func weekdayLabels(date string) (string, string) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date, date
	}
	wd := t.Weekday()
	return weekdayNames[wd], weekdayShort[wd]
}
