// Package services orchestrates ledger writes and analytics reads on top
// of the storage layer.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"bookkeeper/internal/amqp"
	"bookkeeper/internal/core"
	"bookkeeper/internal/export"
	"bookkeeper/internal/log"
)

// LedgerStore is the repository surface the ledger service depends on.
type LedgerStore interface {
	InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error)
}

// BudgetStore is the repository surface for per-category budgets.
type BudgetStore interface {
	GetBudgets(ctx context.Context, owner string) (map[string]core.Money, error)
	UpsertBudget(ctx context.Context, b core.Budget) error
}

// LedgerService handles ledger writes: sign normalization, persistence,
// the post-insert budget check, and best-effort publication of export
// sync messages.
type LedgerService struct {
	ledger     LedgerStore
	budgets    BudgetStore
	amqpClient *amqp.Client
}

func NewLedgerService(ledger LedgerStore, budgets BudgetStore, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		ledger:     ledger,
		budgets:    budgets,
		amqpClient: amqpClient,
	}
}

// Record inserts a transaction and re-evaluates the budget for its
// category against the post-insert ledger. The returned flag is the
// budget-exceeded notice; it is advisory and a failed check never fails
// the write.
func (s *LedgerService) Record(ctx context.Context, t core.Transaction) (int64, bool, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return 0, false, err
	}

	id, err := s.ledger.InsertTransaction(ctx, t)
	if err != nil {
		return 0, false, fmt.Errorf("record transaction: %w", err)
	}

	exceeded := s.checkBudget(ctx, t.Owner, t.Category)
	s.publishSync(ctx, id, t.Owner)

	return id, exceeded, nil
}

// Edit replaces an existing transaction in full. The sign is re-coerced
// from the edited category, never taken from the caller.
func (s *LedgerService) Edit(ctx context.Context, t core.Transaction) error {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}

	if err := s.ledger.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("edit transaction: %w", err)
	}

	// Mirror as delete-then-append so the sheet never holds both versions.
	s.publishDelete(ctx, t.ID, t.Owner)
	s.publishSync(ctx, t.ID, t.Owner)
	return nil
}

// Delete removes a transaction permanently. A missing identity is a
// no-op, mirroring the store contract.
func (s *LedgerService) Delete(ctx context.Context, id int64, owner string) error {
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishDelete(ctx, id, owner)
	return nil
}

// Get fetches a single transaction for the edit form.
func (s *LedgerService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.ledger.GetTransaction(ctx, id)
}

// List returns the full ledger of an owner, date ascending.
func (s *LedgerService) List(ctx context.Context, owner string) ([]core.Transaction, error) {
	return s.ledger.ListTransactions(ctx, owner)
}

// SetBudget upserts a per-category limit.
func (s *LedgerService) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.budgets.UpsertBudget(ctx, b); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// ExportCSV streams the owner's full ledger to w in the spreadsheet
// column order.
func (s *LedgerService) ExportCSV(ctx context.Context, owner string, w io.Writer) error {
	txs, err := s.ledger.ListTransactions(ctx, owner)
	if err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}
	return export.WriteCSV(w, txs)
}

// Budgets returns the owner's category limits.
func (s *LedgerService) Budgets(ctx context.Context, owner string) (map[string]core.Money, error) {
	return s.budgets.GetBudgets(ctx, owner)
}

// checkBudget runs the read-after-write budget evaluation. Failures are
// logged and reported as "not exceeded": the notice is best-effort.
func (s *LedgerService) checkBudget(ctx context.Context, owner, category string) bool {
	txs, err := s.ledger.ListTransactions(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Budget check: list transactions failed",
			log.FieldError, err, log.FieldOwner, owner, log.FieldComponent, log.ComponentLedger)
		return false
	}
	budgets, err := s.budgets.GetBudgets(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "Budget check: get budgets failed",
			log.FieldError, err, log.FieldOwner, owner, log.FieldComponent, log.ComponentLedger)
		return false
	}
	return core.BudgetExceeded(category, txs, budgets)
}

func (s *LedgerService) publishSync(ctx context.Context, id int64, owner string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerSync(ctx, id, owner); err != nil {
		// The write already succeeded locally; the mirror catches up later.
		slog.ErrorContext(ctx, "Failed to publish ledger sync message",
			log.FieldRecordID, id, log.FieldError, err, log.FieldComponent, log.ComponentLedger)
	}
}

func (s *LedgerService) publishDelete(ctx context.Context, id int64, owner string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerDelete(ctx, id, owner); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger delete message",
			log.FieldRecordID, id, log.FieldError, err, log.FieldComponent, log.ComponentLedger)
	}
}

// Close releases the AMQP connection, if any.
func (s *LedgerService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
