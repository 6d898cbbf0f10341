// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering totals with a currency symbol.
package core

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = money.USD

// ParseAmount converts user input into a positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for invalid formats, negative values, zero, or
// values that do not survive conversion to a positive finite float64.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("0")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !ValidAmount(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ValidAmount reports whether d is positive and stays positive and finite as
// a float64, which is how amounts are stored.
func ValidAmount(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}
	f := d.InexactFloat64()
	return f > 0 && !math.IsInf(f, 0)
}

// AmountFromFloat converts a stored floating point amount, treating
// NaN and infinities as zero.
func AmountFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// FormatAmount renders an amount with the currency symbol and exactly two decimals,
// e.g. "$12.50". Unknown currency codes fall back to DefaultCurrency.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	return CurrencySymbol(currencyCode) + amount.StringFixed(2)
}

// CurrencySymbol returns the display symbol for a currency code.
func CurrencySymbol(currencyCode string) string {
	cur := money.GetCurrency(strings.ToUpper(currencyCode))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	return cur.Grapheme
}

// KnownCurrency reports whether the currency code is known.
func KnownCurrency(currencyCode string) bool {
	return money.GetCurrency(strings.ToUpper(currencyCode)) != nil
}
