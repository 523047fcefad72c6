package core

// BudgetExceeded reports whether the expense total of a category strictly
// exceeds its budget. A missing or zero budget means "no limit" and never
// trips the check. The transaction set defines the scope: callers that
// want a read-after-write check pass the set including the record just
// inserted.
func BudgetExceeded(category string, txs []Transaction, budgets map[string]Money) bool {
	limit, ok := budgets[category]
	if !ok || limit.Cents <= 0 {
		return false
	}

	var total int64
	for _, t := range txs {
		if t.Category == category && t.Amount.Cents < 0 {
			total += -t.Amount.Cents
		}
	}
	return total > limit.Cents
}
