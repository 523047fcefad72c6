package core

import (
	"strings"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-31", true},
		{" 2025-01-31 ", true},
		{"2025-1-31", false},
		{"2025/01/31", false},
		{"31-01-2025", false},
		{"2025-02-30", false},
		{"", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDate(%q) expected error, got %v", tc.in, d)
		}
	}

	d, _ := ParseDate("2025-07-04")
	if d.String() != "2025-07-04" {
		t.Fatalf("String() = %s, want 2025-07-04", d.String())
	}
	if d.Period() != "2025-07" {
		t.Fatalf("Period() = %s, want 2025-07", d.Period())
	}
}

func TestNormalizeCoercesSign(t *testing.T) {
	cases := []struct {
		name     string
		category string
		cents    int64
		want     int64
	}{
		{"expense from positive input", "Food", 1234, -1234},
		{"expense already negative", "Food", -1234, -1234},
		{"income from negative input", CategoryIncome, -1234, 1234},
		{"income already positive", CategoryIncome, 1234, 1234},
		{"zero stays zero", "Food", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := Transaction{Category: tc.category, Amount: Money{Cents: tc.cents}}
			tx.Normalize()
			if tx.Amount.Cents != tc.want {
				t.Fatalf("normalized cents = %d, want %d", tx.Amount.Cents, tc.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Owner:    "alice",
		Category: "Food",
		Amount:   Money{Cents: -100},
		Date:     NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Owner: "", Category: "Food", Date: NewDate(2025, 1, 1)},
		{Owner: "alice", Category: "", Date: NewDate(2025, 1, 1)},
		{Owner: "alice", Category: strings.Repeat("x", 101), Date: NewDate(2025, 1, 1)},
		{Owner: "alice", Category: "Food", Note: strings.Repeat("x", 201), Date: NewDate(2025, 1, 1)},
		{Owner: "alice", Category: "Food"}, // zero date
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{Owner: "alice", Category: "Food", Limit: Money{Cents: 0}}).Validate(); err != nil {
		t.Fatalf("zero limit is valid (no limit), got %v", err)
	}
	if err := (Budget{Owner: "alice", Category: "Food", Limit: Money{Cents: -1}}).Validate(); err == nil {
		t.Fatal("negative limit must be rejected")
	}
	if err := (Budget{Owner: "", Category: "Food"}).Validate(); err == nil {
		t.Fatal("empty owner must be rejected")
	}
	if err := (Budget{Owner: "alice", Category: " "}).Validate(); err == nil {
		t.Fatal("blank category must be rejected")
	}
}

func TestRecordTypeValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("income should validate: %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expense should validate: %v", err)
	}
	if err := RecordType("transfer").Validate(); err == nil {
		t.Fatal("unknown record type must be rejected")
	}
}
