package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/oakmere/warehouse-core/internal/inventory"
)

func testMaterials() []inventory.Material {
	weight := 12.5
	return []inventory.Material{
		{
			ID:          "mat-aaaa1111",
			Name:        "Steel Beam",
			Description: "structural, S235",
			Type:        "raw",
			Dimensions:  inventory.Dimensions{Length: 600, Width: 20, Height: 20, Unit: "cm"},
			WeightKG:    &weight,
			CreatedAt:   time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "mat-bbbb2222",
			Name:      "Copper Pipe, 15mm",
			Type:      "raw",
			CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func testStocks() []inventory.Stock {
	expiry := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	return []inventory.Stock{
		{
			ID:          "stk-cccc3333",
			MaterialID:  "mat-aaaa1111",
			Quantity:    40,
			Location:    "A1-RACK-3",
			BatchNumber: "B-2026-007",
			ExpiryDate:  &expiry,
			CreatedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Material:    &inventory.MaterialSummary{ID: "mat-aaaa1111", Name: "Steel Beam", Type: "raw"},
		},
	}
}

func TestWriteMaterialsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMaterialsCSV(&buf, testMaterials()); err != nil {
		t.Fatalf("WriteMaterialsCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}
	if records[0][1] != "name" {
		t.Errorf("header[1] = %q, want name", records[0][1])
	}
	if records[1][1] != "Steel Beam" {
		t.Errorf("row 1 name = %q, want Steel Beam", records[1][1])
	}
	if records[1][8] != "12.5" {
		t.Errorf("row 1 weight = %q, want 12.5", records[1][8])
	}

	// Comma in the name must survive the round trip
	if records[2][1] != "Copper Pipe, 15mm" {
		t.Errorf("row 2 name = %q, want comma preserved", records[2][1])
	}
	// Unknown weight renders empty, not zero
	if records[2][8] != "" {
		t.Errorf("row 2 weight = %q, want empty", records[2][8])
	}
}

func TestWriteStocksCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStocksCSV(&buf, testStocks()); err != nil {
		t.Fatalf("WriteStocksCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	row := records[1]
	if row[2] != "Steel Beam" {
		t.Errorf("material_name = %q, want Steel Beam", row[2])
	}
	if row[4] != "40" {
		t.Errorf("quantity = %q, want 40", row[4])
	}
	if row[8] != "2027-06-01" {
		t.Errorf("expiry_date = %q, want 2027-06-01", row[8])
	}
}

func TestWriteStocksCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStocksCSV(&buf, nil); err != nil {
		t.Fatalf("WriteStocksCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("empty report should be header only, got %d lines", len(lines))
	}
}
