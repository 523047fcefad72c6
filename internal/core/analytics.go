package core

import (
	"math"
	"sort"
)

type (
	// CategoryShare is the expense total of one category together with its
	// percentage of the overall expense total, rounded to two decimals.
	CategoryShare struct {
		Category   string
		Total      Money
		Percentage float64
	}

	// MonthlyBucket is the absolute expense total of one calendar month.
	MonthlyBucket struct {
		Period string // YYYY-MM
		Total  Money
	}
)

// CategoryTotals sums the absolute values of expense transactions per
// category. Only strictly negative amounts contribute, so every reported
// total is positive and categories with no expenses never appear. Entries
// keep the order in which their category first appears in the input.
func CategoryTotals(txs []Transaction) []CategoryShare {
	totals := make(map[string]int64)
	var order []string
	for _, t := range txs {
		if t.Amount.Cents >= 0 {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += -t.Amount.Cents
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		shares = append(shares, CategoryShare{Category: cat, Total: Money{Cents: totals[cat]}})
	}
	return shares
}

// CategoryShares computes per-category expense totals and their percentage
// of the overall expense total, sorted descending by total. Ties keep the
// category-total order. When the overall total is zero every percentage
// is zero.
func CategoryShares(txs []Transaction) []CategoryShare {
	shares := CategoryTotals(txs)

	var grand int64
	for _, s := range shares {
		grand += s.Total.Cents
	}
	if grand > 0 {
		for i := range shares {
			pct := float64(shares[i].Total.Cents) / float64(grand) * 100
			shares[i].Percentage = math.Round(pct*100) / 100
		}
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.Cents > shares[j].Total.Cents
	})
	return shares
}

// MonthlyTotals groups expense transactions by the calendar month of their
// date, summing absolute values. Only months with at least one expense
// appear, sorted ascending by period key (lexicographic order equals
// chronological order for YYYY-MM).
func MonthlyTotals(txs []Transaction) []MonthlyBucket {
	totals := make(map[string]int64)
	for _, t := range txs {
		if t.Amount.Cents >= 0 {
			continue
		}
		totals[t.Date.Period()] += -t.Amount.Cents
	}

	periods := make([]string, 0, len(totals))
	for p := range totals {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	buckets := make([]MonthlyBucket, len(periods))
	for i, p := range periods {
		buckets[i] = MonthlyBucket{Period: p, Total: Money{Cents: totals[p]}}
	}
	return buckets
}

// NetProfitLoss sums all signed amounts of the transaction set: income
// contributes positively, expenses negatively.
func NetProfitLoss(txs []Transaction) Money {
	var sum int64
	for _, t := range txs {
		sum += t.Amount.Cents
	}
	return Money{Cents: sum}
}

// TotalExpense sums the signed amounts of all expense transactions. The
// result is non-positive.
func TotalExpense(txs []Transaction) Money {
	var sum int64
	for _, t := range txs {
		if t.Amount.Cents < 0 {
			sum += t.Amount.Cents
		}
	}
	return Money{Cents: sum}
}
