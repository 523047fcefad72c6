package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookkeeper/internal/core"
	"bookkeeper/internal/storage"
)

type budgetRow struct {
	Category   string
	Total      core.Money
	Percentage float64
	Limit      string
}

type budgetPage struct {
	Owner  string
	Rows   []budgetRow
	Notice string
	Error  string
}

func (s *Server) budgetRows(ctx context.Context, owner string) []budgetRow {
	ov := s.analytics.Overview(ctx, owner)
	rows := make([]budgetRow, 0, len(ov.Shares))
	for _, sh := range ov.Shares {
		row := budgetRow{
			Category:   sh.Category,
			Total:      sh.Total,
			Percentage: sh.Percentage,
		}
		if limit, ok := ov.Budgets[sh.Category]; ok && limit.Cents > 0 {
			row.Limit = limit.String()
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) handleBudgetPage(w http.ResponseWriter, r *http.Request, owner string) {
	s.render(w, r, "advanced.html", budgetPage{
		Owner: owner,
		Rows:  s.budgetRows(r.Context(), owner),
	})
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request, owner string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	category := sanitizeInput(r.Form.Get("category"))
	rawLimit := strings.TrimSpace(r.Form.Get("budget"))

	// Unparseable limits store as zero, which reads as "no limit".
	cents, err := core.ParseDecimalToCents(rawLimit)
	if err != nil {
		slog.WarnContext(r.Context(), "Budget limit not a valid amount, storing zero",
			"owner", owner, "category", category, "raw", rawLimit)
		cents = 0
	}

	b := core.Budget{Owner: owner, Category: category, Limit: core.Money{Cents: cents}}
	if err := s.ledger.SetBudget(r.Context(), b); err != nil {
		slog.ErrorContext(r.Context(), "Failed to set budget",
			"error", err, "owner", owner, "category", category)
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "advanced.html", budgetPage{
			Owner: owner,
			Rows:  s.budgetRows(r.Context(), owner),
			Error: "Could not save the budget",
		})
		return
	}

	slog.InfoContext(r.Context(), "Budget set",
		"owner", owner, "category", category, "limit_cents", cents)
	s.render(w, r, "advanced.html", budgetPage{
		Owner:  owner,
		Rows:   s.budgetRows(r.Context(), owner),
		Notice: "Budget saved",
	})
}

type forecastRow struct {
	Period string
	Amount core.Money
}

type analysisPage struct {
	Owner         string
	Shares        []core.CategoryShare
	Months        []core.MonthlyBucket
	Forecast      []forecastRow
	TotalExpense  core.Money
	NetProfitLoss core.Money
	InProfit      bool
}

func (s *Server) handleAnalysisPage(w http.ResponseWriter, r *http.Request, owner string) {
	ov := s.analytics.Overview(r.Context(), owner)

	forecast := make([]forecastRow, 0, len(ov.Forecast.Periods))
	for i, p := range ov.Forecast.Periods {
		forecast = append(forecast, forecastRow{Period: p, Amount: ov.Forecast.Amounts[i]})
	}

	s.render(w, r, "financial_analysis.html", analysisPage{
		Owner:         owner,
		Shares:        ov.Shares,
		Months:        ov.Months,
		Forecast:      forecast,
		TotalExpense:  core.Money{Cents: -ov.TotalExpense.Cents},
		NetProfitLoss: ov.NetProfitLoss,
		InProfit:      ov.NetProfitLoss.Cents >= 0,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	// A missing probe user still proves the database answers.
	if _, err := s.users.GetUserByUsername(ctx, "__readyz__"); err != nil && !errors.Is(err, storage.ErrNotFound) {
		checks["database"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"checks": checks,
	})
}
