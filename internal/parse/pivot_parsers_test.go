package parse

import "testing"

func TestParseSherriHillPairedColumns(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"Style", "Color", "Desc", "Price", "4", "Special Date", "6", "Special Date"},
		{"54321", "Blush", "Gown", "598", "Last Piece", "2026-07-15", "No", ""},
	}}
	cfg := Config{StockTextMapping: map[string]int{"last piece": 1, "no": 0, "yes": 1}}
	rows := ParseSherriHill(g, cfg)
	if len(rows) != 2 {
		t.Fatalf("expected 2 size records, got %d", len(rows))
	}

	size4 := rows[0]
	if size4.Size != "4" || size4.Stock != 1 {
		t.Fatalf("size 4 = %+v, want Last Piece mapped to stock 1", size4)
	}
	if size4.ShipDate != "2026-07-15" {
		t.Fatalf("size 4 ship date = %q, want the paired Special Date", size4.ShipDate)
	}

	size6 := rows[1]
	if size6.Size != "6" || size6.Stock != 0 || size6.ShipDate != "" {
		t.Fatalf("size 6 = %+v, want No mapped to 0 with no date", size6)
	}
}

func TestParseFerianiCarriesDeliveryAndStyleForward(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"DELIVERY", "STYLE", "COLOR", "38", "40"},
		{"NOW", "F100", "Black", "1", "0"},
		{"", "", "Ivory", "2", "1"},
		{"15/09/2026", "F200", "Red", "0", "3"},
		{"", "", "Gold", "1", ""},
	}}
	rows := ParseFeriani(g, Config{PreferEuropeanDates: true})

	byKey := make(map[[3]string]Row)
	for _, r := range rows {
		byKey[[3]string{r.Style, r.Color, r.Size}] = r
	}

	black38 := byKey[[3]string{"F100", "Black", "38"}]
	if black38.Stock != 1 || black38.ShipDate != "" {
		t.Fatalf("NOW delivery must mean no ship date: %+v", black38)
	}
	ivory38 := byKey[[3]string{"F100", "Ivory", "38"}]
	if ivory38.Stock != 2 {
		t.Fatalf("style must carry forward to the Ivory row: %+v", ivory38)
	}
	red40 := byKey[[3]string{"F200", "Red", "40"}]
	if red40.Stock != 3 || red40.ShipDate != "2026-09-15" {
		t.Fatalf("delivery date must apply from its row on: %+v", red40)
	}
	gold38 := byKey[[3]string{"F200", "Gold", "38"}]
	if gold38.ShipDate != "2026-09-15" {
		t.Fatalf("delivery date must carry forward: %+v", gold38)
	}
}

func TestParseGenericPivotDefaultColor(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"STYLE", "COLOR", "0", "2", "4", "6", "8", "10"},
		{"G100", "", "1", "0", "2", "", "", ""},
		{"G200", "Teal", "", "", "", "1", "", ""},
	}}
	rows := ParseGenericPivot(g, Config{})

	var g100Color, g200Color string
	for _, r := range rows {
		if r.Style == "G100" {
			g100Color = r.Color
		}
		if r.Style == "G200" {
			g200Color = r.Color
		}
	}
	if g100Color != "DEFAULT" {
		t.Fatalf("missing color must default to DEFAULT, got %q", g100Color)
	}
	if g200Color != "Teal" {
		t.Fatalf("explicit color = %q", g200Color)
	}
}

func TestParseGenericPivotDiscontinuedColumn(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"STYLE", "COLOR", "STATUS", "0", "2", "4", "6", "8"},
		{"G300", "Rose", "D", "1", "", "", "", ""},
		{"G400", "Jade", "", "2", "", "", "", ""},
	}}
	rows := ParseGenericPivot(g, Config{})
	for _, r := range rows {
		if r.Style == "G300" && !r.Discontinued {
			t.Fatalf("G300 must be discontinued: %+v", r)
		}
		if r.Style == "G400" && r.Discontinued {
			t.Fatalf("G400 must not be discontinued: %+v", r)
		}
	}
}

func TestParseOTSPositionalSizes(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"style", "color", "size_whole_comp", "ots1", "ots2", "ots3"},
		{"O100", "Mint", "6 8 10", "1", "0", "2"},
		{"O200", "Plum", "", "3", "", ""},
	}}
	rows := ParseOTS(g, Config{})

	byKey := make(map[[3]string]Row)
	for _, r := range rows {
		byKey[[3]string{r.Style, r.Color, r.Size}] = r
	}

	if got := byKey[[3]string{"O100", "Mint", "10"}]; got.Stock != 2 {
		t.Fatalf("ots3 must map to the third listed size: %+v", got)
	}
	if got := byKey[[3]string{"O200", "Plum", "2"}]; got.Stock != 3 {
		t.Fatalf("empty size list must fall back to the default 2-18 range: %+v", got)
	}
}

func TestParsePRDateHeadersAvailableAndIncoming(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"style", "color", "available", "45931"},
		{"P100-8", "Sand", "2", "5"},
		{"P200", "Stone", "0", "0"},
	}}
	rows := ParsePRDateHeaders(g, Config{})

	var availRow, incomingRow *Row
	for i := range rows {
		r := &rows[i]
		if r.Style == "P100" && r.ShipDate == "" {
			availRow = r
		}
		if r.Style == "P100" && r.ShipDate != "" {
			incomingRow = r
		}
		if r.Style == "P200" && r.ShipDate != "" {
			t.Fatalf("zero incoming stock must not emit a date record: %+v", r)
		}
	}
	if availRow == nil || availRow.Size != "8" || availRow.Stock != 2 {
		t.Fatalf("available record = %+v, want size from the -8 suffix", availRow)
	}
	if incomingRow == nil {
		t.Fatal("expected an incoming-stock record from the serial-date column")
	}
	if !incomingRow.HasFutureStock || !incomingRow.PreserveZeroStock {
		t.Fatalf("incoming record flags = %+v", incomingRow)
	}
	if incomingRow.ShipDate != "2025-10-01" {
		t.Fatalf("serial 45931 = %q, want 2025-10-01", incomingRow.ShipDate)
	}
}

func TestParsePRDateHeadersOneSizeFallback(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"style", "available", "45931"},
		{"P300", "1", "0"},
	}}
	rows := ParsePRDateHeaders(g, Config{})
	if len(rows) != 1 || rows[0].Size != "ONE SIZE" {
		t.Fatalf("suffix-less style must get ONE SIZE, got %+v", rows)
	}
}

func TestParseGRNInvoiceNormalizesLeadingZeroSizes(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"Code", "Color", "OO", "02", "04", "10"},
		{"GR100", "Wine", "1", "2", "", "3"},
	}}
	rows := ParseGRNInvoice(g, Config{})

	sizes := make(map[string]int)
	for _, r := range rows {
		sizes[r.Size] = r.Stock
	}
	if sizes["00"] != 1 {
		t.Fatalf("OO header must normalize to 00: %+v", sizes)
	}
	if sizes["2"] != 2 {
		t.Fatalf("02 header must normalize to 2: %+v", sizes)
	}
	if _, ok := sizes["02"]; ok {
		t.Fatal("leading-zero size must not survive unnormalized")
	}
	if sizes["10"] != 3 {
		t.Fatalf("plain sizes pass through: %+v", sizes)
	}
}

func TestParseStoreMultibrandTagsKnownBrand(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"Style", "Product Name", "Color", "Size", "Qty"},
		{"37001", "Jovani prom gown", "Red", "8", "2"},
		{"88001", "House-label dress", "Blue", "10", "1"},
	}}
	rows := ParseStoreMultibrand(g, Config{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Brand != "Jovani" {
		t.Fatalf("brand scan = %q, want Jovani", rows[0].Brand)
	}
	if rows[1].Brand != "" {
		t.Fatalf("unknown product name must not get a brand, got %q", rows[1].Brand)
	}
}
