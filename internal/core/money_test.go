package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"1e-400", "", false},
		{"1e400", "", false},
		{"1e-300", "1e-300", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(dec(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestAmountFromFloat(t *testing.T) {
	if !AmountFromFloat(math.NaN()).IsZero() || !AmountFromFloat(math.Inf(1)).IsZero() {
		t.Fatalf("non finite amounts should read as zero")
	}
	if !AmountFromFloat(12.5).Equal(dec("12.5")) {
		t.Fatalf("unexpected conversion")
	}
}

func TestCurrencySymbol(t *testing.T) {
	if CurrencySymbol("usd") != "$" {
		t.Fatalf("expected $ for usd")
	}
	if CurrencySymbol("nope") != "$" {
		t.Fatalf("unknown code should fall back to $")
	}
	if !KnownCurrency("EUR") || KnownCurrency("nope") {
		t.Fatalf("unexpected KnownCurrency result")
	}
}
