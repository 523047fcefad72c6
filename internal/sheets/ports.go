// Package sheets defines the outbound port for mirroring the ledger to a
// spreadsheet, plus its Google Sheets implementation.
package sheets

import (
	"context"

	"bookkeeper/internal/core"
)

type (
	// LedgerMirror keeps an external spreadsheet in step with the ledger.
	LedgerMirror interface {
		// AppendTransaction appends one ledger row and returns a backend
		// reference for it.
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)

		// RemoveTransaction removes the mirrored row for a ledger identity.
		// Removing an identity that was never mirrored is a no-op.
		RemoveTransaction(ctx context.Context, id int64) error
	}
)

// HeaderRow is the column order of the mirrored ledger, matching the CSV
// export: identity, owner, category, amount, note, date, tags.
var HeaderRow = []string{"ID", "Username", "Category", "Amount", "Note", "Date", "Tags"}
