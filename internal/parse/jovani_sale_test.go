package parse

import "testing"

func buildJovaniGrid() Grid {
	return Grid{Rows: [][]string{
		{"STYLE", "00", "0", "2", "4", "6", "LOCATION", "8"},
		{"#1012", "450.00"},
		{"Red", "", "1", "2", "", "", "SHELF A", "1"},
		{"Navy Blue", "0", "", "3", "", "", "", ""},
		{"JVN2345", "300"},
		{"Emerald", "", "", "", "4", "", "", ""},
	}}
}

func TestParseJovaniSaleInterleavedRows(t *testing.T) {
	rows := ParseJovaniSale(buildJovaniGrid(), Config{})

	byKey := make(map[[3]string]Row)
	for _, r := range rows {
		byKey[[3]string{r.Style, r.Color, r.Size}] = r
	}

	red2 := byKey[[3]string{"1012", "Red", "2"}]
	if red2.Stock != 2 {
		t.Fatalf("1012/Red/2 = %+v, want stock 2", red2)
	}
	if red2.Price == nil || *red2.Price != 450.00 {
		t.Fatalf("1012/Red/2 price = %v, want 450 carried from the style row", red2.Price)
	}

	if _, ok := byKey[[3]string{"1012", "Red", "LOCATION"}]; ok {
		t.Fatal("LOCATION header must not become a size column")
	}

	navy2 := byKey[[3]string{"1012", "Navy Blue", "2"}]
	if navy2.Stock != 3 {
		t.Fatalf("1012/Navy Blue/2 = %+v, want stock 3", navy2)
	}

	emerald4 := byKey[[3]string{"JVN2345", "Emerald", "4"}]
	if emerald4.Stock != 4 {
		t.Fatalf("JVN2345/Emerald/4 = %+v, want stock 4 under the second style", emerald4)
	}
	if emerald4.Price == nil || *emerald4.Price != 300 {
		t.Fatalf("JVN2345 price = %v, want 300", emerald4.Price)
	}
}

func TestParseJovaniSaleHashPrefixStripped(t *testing.T) {
	rows := ParseJovaniSale(buildJovaniGrid(), Config{})
	for _, r := range rows {
		if r.Style == "#1012" {
			t.Fatal("leading # must be stripped from the style token")
		}
	}
}

func TestParseJovaniSaleMisalignedStyle(t *testing.T) {
	g := Grid{Rows: [][]string{
		{"STYLE", "2", "4", "6"},
		{"55012"}, // style row: no price, no stock
		{"8877991", "", "", ""}, // numeric token too long for a style row: misaligned style
		{"Blush", "1", "", ""},
	}}
	rows := ParseJovaniSale(g, Config{})
	if len(rows) == 0 {
		t.Fatal("expected rows")
	}
	for _, r := range rows {
		if r.Color == "Blush" && r.Style != "8877991" {
			t.Fatalf("Blush row style = %q, want the misaligned style 8877991", r.Style)
		}
	}
}

func TestParseJovaniSaleSkipsEmptyStockCells(t *testing.T) {
	rows := ParseJovaniSale(buildJovaniGrid(), Config{})
	for _, r := range rows {
		if r.Style == "1012" && r.Color == "Red" && r.Size == "4" {
			t.Fatal("empty stock cell must not emit a record")
		}
	}
}
