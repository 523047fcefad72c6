// Package export renders an owner's ledger as a spreadsheet download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bookkeeper/internal/core"
	"bookkeeper/internal/sheets"
)

// WriteCSV streams the ledger as CSV, one row per transaction, in the
// same column order the Google Sheets mirror uses.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sheets.HeaderRow); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Owner,
			t.Category,
			t.Amount.String(),
			t.Note,
			t.Date.String(),
			t.Tags,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for an owner's export.
func Filename(owner string) string {
	return fmt.Sprintf("ledger_%s.csv", owner)
}
