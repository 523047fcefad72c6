package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookkeeper/internal/core"
	"bookkeeper/internal/export"
)

type ledgerPage struct {
	Owner        string
	Transactions []core.Transaction
	Error        string
	BudgetAlert  string
}

func (s *Server) handleLedgerPage(w http.ResponseWriter, r *http.Request, owner string) {
	s.renderLedgerPage(w, r, http.StatusOK, owner, "", "")
}

func (s *Server) renderLedgerPage(w http.ResponseWriter, r *http.Request, status int, owner, errMsg, alert string) {
	txs, err := s.ledger.List(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err, "owner", owner)
		txs = nil
	}
	s.renderStatus(w, r, status, "expense.html", ledgerPage{
		Owner:        owner,
		Transactions: txs,
		Error:        errMsg,
		BudgetAlert:  alert,
	})
}

// parseTransactionForm builds a transaction from form input. The sign
// is not read from the form: income entries go to the reserved income
// category and Normalize derives the sign from that.
func parseTransactionForm(r *http.Request, owner string) (core.Transaction, error) {
	if err := r.ParseForm(); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid form: %w", err)
	}

	rt := parseRecordType(r.Form.Get("type"))
	category := sanitizeInput(r.Form.Get("category"))
	if rt == core.Income {
		category = core.CategoryIncome
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	var date core.Date
	if raw := strings.TrimSpace(r.Form.Get("date")); raw != "" {
		date, err = core.ParseDate(raw)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("invalid date: %w", err)
		}
	} else {
		now := time.Now()
		date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	return core.Transaction{
		Owner:    owner,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Note:     sanitizeInput(r.Form.Get("note")),
		Date:     date,
		Tags:     sanitizeInput(r.Form.Get("tags")),
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	t, err := parseTransactionForm(r, owner)
	if err != nil {
		s.renderLedgerPage(w, r, http.StatusUnprocessableEntity, owner, err.Error(), "")
		return
	}

	id, exceeded, err := s.ledger.Record(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to record transaction",
			"error", err, "owner", owner, "category", t.Category)
		s.renderLedgerPage(w, r, http.StatusUnprocessableEntity, owner, "Could not save the entry", "")
		return
	}

	slog.InfoContext(r.Context(), "Transaction recorded",
		"id", id, "owner", owner, "category", t.Category,
		"amount_cents", t.Amount.Cents, "budget_exceeded", exceeded)

	alert := ""
	if exceeded {
		alert = fmt.Sprintf("Budget exceeded for category %s", t.Category)
	}
	s.renderLedgerPage(w, r, http.StatusOK, owner, "", alert)
}

type editPage struct {
	Owner       string
	Transaction core.Transaction
	IsIncome    bool
	Error       string
}

// ownedTransaction fetches a transaction and checks it belongs to the
// caller. Other users' records read as not found.
func (s *Server) ownedTransaction(w http.ResponseWriter, r *http.Request, owner string) (core.Transaction, bool) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return core.Transaction{}, false
	}
	t, err := s.ledger.Get(r.Context(), id)
	if err != nil || t.Owner != owner {
		http.NotFound(w, r)
		return core.Transaction{}, false
	}
	return t, true
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request, owner string) {
	t, ok := s.ownedTransaction(w, r, owner)
	if !ok {
		return
	}
	s.render(w, r, "edit_expense.html", editPage{
		Owner:       owner,
		Transaction: t,
		IsIncome:    t.Category == core.CategoryIncome,
	})
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	existing, ok := s.ownedTransaction(w, r, owner)
	if !ok {
		return
	}

	t, err := parseTransactionForm(r, owner)
	if err != nil {
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "edit_expense.html", editPage{
			Owner:       owner,
			Transaction: existing,
			IsIncome:    existing.Category == core.CategoryIncome,
			Error:       err.Error(),
		})
		return
	}
	t.ID = existing.ID

	if err := s.ledger.Edit(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Failed to edit transaction",
			"error", err, "id", t.ID, "owner", owner)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Transaction edited", "id", t.ID, "owner", owner)
	http.Redirect(w, r, "/expense", http.StatusSeeOther)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, owner string) {
	t, ok := s.ownedTransaction(w, r, owner)
	if !ok {
		return
	}

	if err := s.ledger.Delete(r.Context(), t.ID, owner); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete transaction",
			"error", err, "id", t.ID, "owner", owner)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Transaction deleted", "id", t.ID, "owner", owner)
	http.Redirect(w, r, "/expense", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, owner string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(owner)))
	if err := s.ledger.ExportCSV(r.Context(), owner, w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to stream export", "error", err, "owner", owner)
	}
}
