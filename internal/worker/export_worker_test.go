package worker

import (
	"context"
	"errors"
	"testing"

	"bookkeeper/internal/amqp"
	"bookkeeper/internal/core"
	"bookkeeper/internal/storage"
)

type fakeStore struct {
	txs map[int64]core.Transaction
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	t, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return t, nil
}

type fakeMirror struct {
	appended []core.Transaction
	removed  []int64
	fail     bool
}

func (f *fakeMirror) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	if f.fail {
		return "", errors.New("sheets unavailable")
	}
	f.appended = append(f.appended, t)
	return "Ledger!A2:G2", nil
}

func (f *fakeMirror) RemoveTransaction(_ context.Context, id int64) error {
	if f.fail {
		return errors.New("sheets unavailable")
	}
	f.removed = append(f.removed, id)
	return nil
}

func TestHandleMessageUpsert(t *testing.T) {
	tx := core.Transaction{ID: 1, Owner: "alice", Category: "Food", Amount: core.Money{Cents: -100}, Date: core.NewDate(2025, 1, 1)}
	store := &fakeStore{txs: map[int64]core.Transaction{1: tx}}
	mirror := &fakeMirror{}
	w := NewExportWorker(store, mirror)

	if err := w.HandleMessage(context.Background(), amqp.NewLedgerSyncMessage(1, "alice")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(mirror.appended) != 1 || mirror.appended[0].ID != 1 {
		t.Fatalf("expected row mirrored, got %v", mirror.appended)
	}
}

func TestHandleMessageUpsertMissingRowIsSkipped(t *testing.T) {
	w := NewExportWorker(&fakeStore{txs: map[int64]core.Transaction{}}, &fakeMirror{})

	// Row deleted before the worker got to it: consume without error so the
	// message is not requeued forever.
	if err := w.HandleMessage(context.Background(), amqp.NewLedgerSyncMessage(99, "alice")); err != nil {
		t.Fatalf("missing row must be a no-op, got %v", err)
	}
}

func TestHandleMessageDelete(t *testing.T) {
	mirror := &fakeMirror{}
	w := NewExportWorker(&fakeStore{}, mirror)

	if err := w.HandleMessage(context.Background(), amqp.NewLedgerDeleteMessage(7, "alice")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(mirror.removed) != 1 || mirror.removed[0] != 7 {
		t.Fatalf("expected row 7 removed, got %v", mirror.removed)
	}
}

func TestHandleMessageMirrorFailurePropagates(t *testing.T) {
	tx := core.Transaction{ID: 1, Owner: "alice", Category: "Food", Amount: core.Money{Cents: -100}, Date: core.NewDate(2025, 1, 1)}
	store := &fakeStore{txs: map[int64]core.Transaction{1: tx}}
	w := NewExportWorker(store, &fakeMirror{fail: true})

	if err := w.HandleMessage(context.Background(), amqp.NewLedgerSyncMessage(1, "alice")); err == nil {
		t.Fatal("mirror failure must surface so the message is requeued")
	}
}
