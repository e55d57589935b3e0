package parse

import "testing"

func TestParseRowKeywordColumns(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"Style", "Color", "Size", "Qty", "Price"},
		{"A100", "Red", "8", "3", "120.00"},
		{"A100", "Red", "0", "1", "120.00"},
		{"", "Blue", "10", "2", ""},
	}}
	rows := ParseRow(g, Config{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (styleless row skipped), got %d", len(rows))
	}
	if rows[0].Style != "A100" || rows[0].Color != "Red" || rows[0].Size != "8" || rows[0].Stock != 3 {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[0].Price == nil || *rows[0].Price != 120 {
		t.Fatalf("row 0 price = %v", rows[0].Price)
	}
	if rows[1].Size != "0" {
		t.Fatalf("literal zero size must survive, got %q", rows[1].Size)
	}
}

func TestParseRowHeaderNotInFirstRow(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"Inventory export 2026-07-01"},
		{},
		{"SKU", "Colour", "Size", "Stock"},
		{"B200", "Navy", "M", "5"},
	}}
	rows := ParseRow(g, Config{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Style != "B200" || rows[0].Color != "Navy" || rows[0].Stock != 5 {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestParseRowExplicitColumnMapping(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"Artikel", "Farbe", "Groesse", "Bestand"},
		{"C300", "Schwarz", "38", "2"},
	}}
	cfg := Config{ColumnMapping: map[string]string{
		"style": "Artikel",
		"color": "Farbe",
		"size":  "Groesse",
		"stock": "Bestand",
	}}
	rows := ParseRow(g, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Style != "C300" || rows[0].Color != "Schwarz" || rows[0].Size != "38" || rows[0].Stock != 2 {
		t.Fatalf("mapped row = %+v", rows[0])
	}
}

func TestParseRowCombinedVariantColumn(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"variant", "qty"},
		{"D400/Ivory/10", "4"},
	}}
	cfg := Config{
		CombinedVariantColumn:    "variant",
		CombinedVariantDelimiter: "/",
		CombinedVariantOrder:     []string{"style", "color", "size"},
	}
	rows := ParseRow(g, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Style != "D400" || rows[0].Color != "Ivory" || rows[0].Size != "10" {
		t.Fatalf("split variant = %+v", rows[0])
	}
}

func TestParseRowConditionalShipDate(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"style", "size", "qty", "status", "eta"},
		{"E500", "6", "0", "INCOMING", "2026-09-01"},
		{"E500", "8", "2", "IN STOCK", "2026-09-01"},
	}}
	cfg := Config{
		ConditionalShipDateColumn: "status",
		ConditionalShipDateValue:  "INCOMING",
		ConditionalShipDateSource: "eta",
	}
	rows := ParseRow(g, cfg)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ShipDate != "2026-09-01" {
		t.Fatalf("INCOMING row ship date = %q, want 2026-09-01", rows[0].ShipDate)
	}
	if rows[1].ShipDate != "" {
		t.Fatalf("IN STOCK row must not get the conditional date, got %q", rows[1].ShipDate)
	}
}

func TestParseRowDirectShipDate(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"style", "size", "qty", "ship"},
		{"F600", "4", "1", "7/15/2026"},
	}}
	rows := ParseRow(g, Config{DirectShipDateColumn: "ship"})
	if len(rows) != 1 || rows[0].ShipDate != "2026-07-15" {
		t.Fatalf("direct ship date = %+v", rows)
	}
}
