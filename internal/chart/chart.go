// Package chart lays out the daily breakdown as a stacked bar chart:
// legend, y-axis ticks and per-category bar segments.
package chart

import (
	"sort"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"
)

// DefaultBarHeight is the height of the tallest possible bar.
const DefaultBarHeight = 320

const maxTicks = 5

var palette = map[string]string{
	"Food":             "#10b981",
	"Books":            "#3b82f6",
	"Rent":             "#f97316",
	"Transport":        "#8b5cf6",
	"Entertainment":    "#ec4899",
	"Utilities":        "#06b6d4",
	core.OtherCategory: "#6b7280",
}

type (
	LegendEntry struct {
		Category string `json:"category"`
		Color    string `json:"color"`
	}

	Tick struct {
		Value  int64  `json:"value"`
		Label  string `json:"label"`
		Offset int    `json:"offset"` // distance from the top of the axis
	}

	Scale struct {
		Max        decimal.Decimal `json:"max"`
		RoundedMax int64           `json:"rounded_max"`
		Ticks      []Tick          `json:"ticks"`
	}

	Segment struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Color    string          `json:"color"`
		Height   int             `json:"height"`
	}

	Bar struct {
		Date       string    `json:"date"`
		Label      string    `json:"label"`
		DateLabel  string    `json:"date_label"`
		TotalLabel string    `json:"total_label"`
		Segments   []Segment `json:"segments"`
	}

	Layout struct {
		BarHeight int           `json:"bar_height"`
		Legend    []LegendEntry `json:"legend"`
		Scale     Scale         `json:"scale"`
		Bars      []Bar         `json:"bars"`
	}
)

// CategoryColor returns the bar color for a category; unknown ones share Other's color.
func CategoryColor(category string) string {
	if c, ok := palette[category]; ok {
		return c
	}
	return palette[core.OtherCategory]
}

// Build lays out days for a chart barHeight units tall.
func Build(days []core.DailyTotal, currencyCode string, barHeight int) Layout {
	if barHeight <= 0 {
		barHeight = DefaultBarHeight
	}
	layout := Layout{
		BarHeight: barHeight,
		Legend:    Legend(days),
		Bars:      []Bar{},
	}
	if len(days) == 0 {
		return layout
	}

	peak := maxTotal(days)
	layout.Scale = NewScale(peak, currencyCode, barHeight)
	symbol := core.CurrencySymbol(currencyCode)
	height := decimal.NewFromInt(int64(barHeight))

	for _, d := range days {
		bar := Bar{
			Date:       d.Date,
			Label:      d.DayShort,
			DateLabel:  core.FormatShortDate(d.Date),
			TotalLabel: symbol + d.Total.StringFixed(0),
		}
		for _, cat := range sortedKeys(d.Categories) {
			amt := d.Categories[cat]
			bar.Segments = append(bar.Segments, Segment{
				Category: cat,
				Amount:   amt,
				Color:    CategoryColor(cat),
				Height:   int(amt.Div(peak).Mul(height).Round(0).IntPart()),
			})
		}
		layout.Bars = append(layout.Bars, bar)
	}
	return layout
}

// Legend lists every category present in days, alphabetically.
func Legend(days []core.DailyTotal) []LegendEntry {
	seen := make(map[string]struct{})
	for _, d := range days {
		for cat := range d.Categories {
			seen[cat] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for cat := range seen {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	out := make([]LegendEntry, 0, len(cats))
	for _, cat := range cats {
		out = append(out, LegendEntry{Category: cat, Color: CategoryColor(cat)})
	}
	return out
}

// NewScale builds the y-axis for a chart whose tallest bar totals peak.
// The axis tops out at peak rounded up to a multiple of ten and carries
// at most five ticks starting from zero.
func NewScale(peak decimal.Decimal, currencyCode string, barHeight int) Scale {
	one := decimal.NewFromInt(1)
	if peak.LessThan(one) {
		peak = one
	}
	ten := decimal.NewFromInt(10)
	rounded := peak.Div(ten).Ceil().Mul(ten).IntPart()
	symbol := core.CurrencySymbol(currencyCode)

	scale := Scale{Max: peak, RoundedMax: rounded}
	step := decimal.NewFromInt(rounded).Div(decimal.NewFromInt(maxTicks))
	for i := 0; i < maxTicks; i++ {
		v := step.Mul(decimal.NewFromInt(int64(i))).Round(0).IntPart()
		top := int(one.
			Sub(decimal.NewFromInt(v).Div(decimal.NewFromInt(rounded))).
			Mul(decimal.NewFromInt(int64(barHeight))).
			Round(0).IntPart())
		scale.Ticks = append(scale.Ticks, Tick{
			Value:  v,
			Label:  symbol + decimal.NewFromInt(v).String(),
			Offset: top,
		})
	}
	return scale
}

func maxTotal(days []core.DailyTotal) decimal.Decimal {
	peak := decimal.NewFromInt(1)
	for _, d := range days {
		if d.Total.GreaterThan(peak) {
			peak = d.Total
		}
	}
	return peak
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
