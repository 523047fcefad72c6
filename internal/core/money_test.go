package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{".5", 50, true},
		{"12.344", 1234, true}, // third decimal below 5 drops
		{"12.345", 1235, true}, // half-up on the third decimal
		{"12.346", 1235, true},
		{"0", 0, false},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"12e3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error, got %d", tc.in, got)
		}
	}
}

func TestMoneyAbs(t *testing.T) {
	if got := (Money{Cents: -150}).Abs(); got.Cents != 150 {
		t.Fatalf("Abs(-150) = %d", got.Cents)
	}
	if got := (Money{Cents: 150}).Abs(); got.Cents != 150 {
		t.Fatalf("Abs(150) = %d", got.Cents)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{-1234, "-12.34"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("Money(%d).String() = %s, want %s", tc.cents, got, tc.want)
		}
	}
}
