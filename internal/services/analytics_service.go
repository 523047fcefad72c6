package services

import (
	"context"
	"log/slog"

	"bookkeeper/internal/core"
	"bookkeeper/internal/log"
)

// Overview is the consolidated read model for the analysis pages.
type Overview struct {
	Shares        []core.CategoryShare
	Months        []core.MonthlyBucket
	Forecast      core.Forecast
	Budgets       map[string]core.Money
	Transactions  []core.Transaction
	TotalExpense  core.Money
	NetProfitLoss core.Money
}

// AnalyticsService computes aggregate views over an owner's ledger. It
// is a total façade: Overview always returns a usable value and never
// an error. Any storage fault degrades to an empty overview so the
// pages still render.
type AnalyticsService struct {
	ledger  LedgerStore
	budgets BudgetStore
	horizon int
}

func NewAnalyticsService(ledger LedgerStore, budgets BudgetStore, horizon int) *AnalyticsService {
	if horizon <= 0 {
		horizon = core.DefaultForecastHorizon
	}
	return &AnalyticsService{
		ledger:  ledger,
		budgets: budgets,
		horizon: horizon,
	}
}

// Overview loads the ledger once and derives every aggregate from that
// single read, so all figures describe the same snapshot.
func (s *AnalyticsService) Overview(ctx context.Context, owner string) Overview {
	txs, err := s.ledger.ListTransactions(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Analytics: list transactions failed", log.FieldError, err, log.FieldOwner, owner, log.FieldComponent, log.ComponentAnalytics)
		return Overview{Budgets: map[string]core.Money{}}
	}

	budgets, err := s.budgets.GetBudgets(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Analytics: get budgets failed", log.FieldError, err, log.FieldOwner, owner, log.FieldComponent, log.ComponentAnalytics)
		budgets = map[string]core.Money{}
	}

	return Overview{
		Shares:        core.CategoryShares(txs),
		Months:        core.MonthlyTotals(txs),
		Forecast:      core.ForecastExpenses(txs, s.horizon),
		Budgets:       budgets,
		Transactions:  txs,
		TotalExpense:  core.TotalExpense(txs),
		NetProfitLoss: core.NetProfitLoss(txs),
	}
}

// BudgetExceeded reports whether the owner's spend in a category is
// over its limit. Faults degrade to false.
func (s *AnalyticsService) BudgetExceeded(ctx context.Context, owner, category string) bool {
	txs, err := s.ledger.ListTransactions(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Analytics: list transactions failed", log.FieldError, err, log.FieldOwner, owner, log.FieldComponent, log.ComponentAnalytics)
		return false
	}
	budgets, err := s.budgets.GetBudgets(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Analytics: get budgets failed", log.FieldError, err, log.FieldOwner, owner, log.FieldComponent, log.ComponentAnalytics)
		return false
	}
	return core.BudgetExceeded(category, txs, budgets)
}
