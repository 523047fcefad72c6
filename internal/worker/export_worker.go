// Package worker mirrors ledger writes to the configured spreadsheet by
// consuming the export queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookkeeper/internal/amqp"
	"bookkeeper/internal/core"
	"bookkeeper/internal/log"
	"bookkeeper/internal/sheets"
	"bookkeeper/internal/storage"
)

// TransactionGetter is the slice of the repository the worker needs.
type TransactionGetter interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// ExportWorker applies ledger sync messages to the spreadsheet mirror.
type ExportWorker struct {
	store  TransactionGetter
	mirror sheets.LedgerMirror
}

func NewExportWorker(store TransactionGetter, mirror sheets.LedgerMirror) *ExportWorker {
	return &ExportWorker{
		store:  store,
		mirror: mirror,
	}
}

// HandleMessage processes a single ledger sync message.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	switch msg.Op {
	case amqp.OpUpsert:
		return w.handleUpsert(ctx, msg)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg)
	default:
		// Decoding already rejects unknown ops; this is a guard against
		// future message versions.
		slog.WarnContext(ctx, "Ignoring ledger sync message with unknown op", "op", msg.Op, "id", msg.ID)
		return nil
	}
}

func (w *ExportWorker) handleUpsert(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	t, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Row was deleted between publish and consume; nothing to mirror.
		slog.WarnContext(ctx, "Ledger row gone before mirroring, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", msg.ID, err)
	}

	ref, err := w.mirror.AppendTransaction(ctx, t)
	if err != nil {
		return fmt.Errorf("mirror transaction %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Ledger row exported",
		log.FieldRecordID, msg.ID,
		log.FieldOwner, t.Owner,
		log.FieldSheetsRef, ref,
		log.FieldComponent, log.ComponentWorker)
	return nil
}

func (w *ExportWorker) handleDelete(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	if err := w.mirror.RemoveTransaction(ctx, msg.ID); err != nil {
		return fmt.Errorf("remove mirrored transaction %d: %w", msg.ID, err)
	}
	return nil
}
