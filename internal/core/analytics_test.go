package core

import (
	"math"
	"testing"
)

func expense(category string, cents int64, date Date) Transaction {
	return Transaction{Owner: "alice", Category: category, Amount: Money{Cents: -cents}, Date: date}
}

func income(cents int64, date Date) Transaction {
	return Transaction{Owner: "alice", Category: CategoryIncome, Amount: Money{Cents: cents}, Date: date}
}

func TestCategorySharesPercentagesSumTo100(t *testing.T) {
	txs := []Transaction{
		expense("Food", 3000, NewDate(2025, 1, 5)),
		expense("Rent", 90000, NewDate(2025, 1, 1)),
		expense("Food", 1500, NewDate(2025, 1, 20)),
		expense("Fun", 700, NewDate(2025, 2, 3)),
		income(120000, NewDate(2025, 1, 25)),
	}

	shares := CategoryShares(txs)
	if len(shares) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(shares))
	}

	var totalCents int64
	var pctSum float64
	for _, s := range shares {
		totalCents += s.Total.Cents
		pctSum += s.Percentage
	}
	if totalCents != 3000+90000+1500+700 {
		t.Fatalf("share totals = %d, want sum of absolute expenses", totalCents)
	}
	// Each share is rounded to 2 decimals independently, so the sum can
	// drift from 100 by up to half a cent-of-percent per category.
	tolerance := 0.005*float64(len(shares)) + 1e-9
	if math.Abs(pctSum-100) > tolerance {
		t.Fatalf("percentages sum to %v, want 100 +-%v", pctSum, tolerance)
	}

	// Descending by total.
	for i := 1; i < len(shares); i++ {
		if shares[i].Total.Cents > shares[i-1].Total.Cents {
			t.Fatalf("shares not sorted descending: %v before %v", shares[i-1], shares[i])
		}
	}
	if shares[0].Category != "Rent" {
		t.Fatalf("largest category = %s, want Rent", shares[0].Category)
	}
}

func TestCategorySharesZeroTotal(t *testing.T) {
	txs := []Transaction{
		income(5000, NewDate(2025, 3, 1)),
		income(2000, NewDate(2025, 3, 2)),
	}
	if got := CategoryShares(txs); len(got) != 0 {
		t.Fatalf("expected no shares without expenses, got %v", got)
	}
}

func TestCategorySharesStableTieBreak(t *testing.T) {
	txs := []Transaction{
		expense("B", 1000, NewDate(2025, 1, 1)),
		expense("A", 1000, NewDate(2025, 1, 2)),
	}
	shares := CategoryShares(txs)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	// Equal totals keep first-appearance order.
	if shares[0].Category != "B" || shares[1].Category != "A" {
		t.Fatalf("tie-break not stable: %v", shares)
	}
}

func TestCategoryTotalsExcludesIncomeOnlyCategories(t *testing.T) {
	txs := []Transaction{
		income(10000, NewDate(2025, 1, 1)),
		expense("Food", 2500, NewDate(2025, 1, 2)),
	}
	totals := CategoryTotals(txs)
	if len(totals) != 1 || totals[0].Category != "Food" {
		t.Fatalf("expected only Food, got %v", totals)
	}
	if totals[0].Total.Cents != 2500 {
		t.Fatalf("Food total = %d, want 2500", totals[0].Total.Cents)
	}
}

func TestMonthlyTotals(t *testing.T) {
	txs := []Transaction{
		expense("Food", 1000, NewDate(2025, 1, 15)),
		expense("Food", 2000, NewDate(2025, 3, 2)),
		expense("Rent", 500, NewDate(2025, 1, 28)),
		income(9000, NewDate(2025, 2, 1)), // income month must not appear
	}

	buckets := MonthlyTotals(txs)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 months, got %v", buckets)
	}
	if buckets[0].Period != "2025-01" || buckets[0].Total.Cents != 1500 {
		t.Fatalf("first bucket = %+v, want 2025-01 / 1500", buckets[0])
	}
	if buckets[1].Period != "2025-03" || buckets[1].Total.Cents != 2000 {
		t.Fatalf("second bucket = %+v, want 2025-03 / 2000", buckets[1])
	}
	for _, b := range buckets {
		if b.Total.Cents < 0 {
			t.Fatalf("monthly total negative: %+v", b)
		}
	}
}

func TestMonthlyTotalsEmpty(t *testing.T) {
	if got := MonthlyTotals(nil); len(got) != 0 {
		t.Fatalf("expected no buckets for empty ledger, got %v", got)
	}
}

func TestNetProfitLoss(t *testing.T) {
	txs := []Transaction{
		income(100000, NewDate(2025, 1, 1)),
		expense("Food", 30000, NewDate(2025, 1, 5)),
		expense("Rent", 50000, NewDate(2025, 1, 6)),
	}
	if got := NetProfitLoss(txs); got.Cents != 20000 {
		t.Fatalf("net profit/loss = %d, want 20000", got.Cents)
	}
	if got := NetProfitLoss(nil); got.Cents != 0 {
		t.Fatalf("net profit/loss of empty ledger = %d, want 0", got.Cents)
	}
}

func TestTotalExpense(t *testing.T) {
	txs := []Transaction{
		income(100000, NewDate(2025, 1, 1)),
		expense("Food", 1234, NewDate(2025, 1, 5)),
		expense("Fun", 766, NewDate(2025, 1, 9)),
	}
	if got := TotalExpense(txs); got.Cents != -2000 {
		t.Fatalf("total expense = %d, want -2000", got.Cents)
	}
}
