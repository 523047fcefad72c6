package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"bookkeeper/internal/core"
)

func TestWriteCSV(t *testing.T) {
	date, err := core.ParseDate("2025-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}

	txs := []core.Transaction{
		{ID: 1, Owner: "ada", Category: "Groceries", Amount: core.Money{Cents: -1550}, Note: "weekly shop", Date: date, Tags: "food"},
		{ID: 2, Owner: "ada", Category: core.CategoryIncome, Amount: core.Money{Cents: 300000}, Date: date},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}

	wantHeader := []string{"ID", "Username", "Category", "Amount", "Note", "Date", "Tags"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}
	wantRow := []string{"1", "ada", "Groceries", "-15.50", "weekly shop", "2025-06-15", "food"}
	if !reflect.DeepEqual(records[1], wantRow) {
		t.Errorf("row = %v, want %v", records[1], wantRow)
	}
	if records[2][3] != "3000.00" {
		t.Errorf("income amount = %q, want 3000.00", records[2][3])
	}
}

func TestWriteCSVEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("rows = %d, want header only", len(records))
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("ada"); got != "ledger_ada.csv" {
		t.Errorf("Filename = %q", got)
	}
}
