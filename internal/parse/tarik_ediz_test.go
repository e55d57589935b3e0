package parse

import "testing"

// buildTarikGrid assembles the §8 S1 shape: a title row, a style-header
// row with sizes from column 13, a discontinued data row, and a
// future-date data row.
func buildTarikGrid() Grid {
	title := []string{"Up-to-Date Product Inventory Report"}

	styleRow := make([]string, 22)
	styleRow[0] = "10001"
	styleRow[7] = "Gown Name"
	for i, size := range []string{"2", "4", "6", "8", "10", "12", "14", "16", "18"} {
		styleRow[13+i] = size
	}

	dRow := make([]string, 22)
	dRow[0] = "D"
	dRow[11] = "Purple"
	for i, stock := range []string{"0", "2", "1", "0", "0", "0", "0", "0", "0"} {
		dRow[13+i] = stock
	}

	dateRow := make([]string, 22)
	dateRow[0] = "24/03/2026"
	dateRow[11] = "Navy"
	for i, stock := range []string{"0", "0", "1", "0", "0", "0", "0", "0", "0"} {
		dateRow[13+i] = stock
	}

	return Grid{Rows: [][]string{title, {}, {}, {}, {}, styleRow, dRow, dateRow}}
}

func TestParseTarikEdizStateMachine(t *testing.T) {
	rows := ParseTarikEdiz(buildTarikGrid(), Config{})
	if len(rows) != 18 {
		t.Fatalf("expected 9 sizes x 2 data rows = 18 records, got %d", len(rows))
	}

	byKey := make(map[[3]string]Row)
	for _, r := range rows {
		byKey[[3]string{r.Style, r.Color, r.Size}] = r
	}

	purple4 := byKey[[3]string{"10001", "Purple", "4"}]
	if purple4.Stock != 2 || !purple4.Discontinued || purple4.ShipDate != "" {
		t.Fatalf("Purple/4 = %+v, want stock 2, discontinued, no ship date", purple4)
	}
	purple6 := byKey[[3]string{"10001", "Purple", "6"}]
	if purple6.Stock != 1 || !purple6.Discontinued {
		t.Fatalf("Purple/6 = %+v, want stock 1, discontinued", purple6)
	}

	navy6 := byKey[[3]string{"10001", "Navy", "6"}]
	if navy6.Stock != 1 || navy6.Discontinued {
		t.Fatalf("Navy/6 = %+v, want stock 1, not discontinued", navy6)
	}
	if navy6.ShipDate != "2026-03-24" {
		t.Fatalf("Navy/6 ship date = %q, want 2026-03-24 (European 24/03/2026)", navy6.ShipDate)
	}
}

func TestParseTarikEdizNewStyleResets(t *testing.T) {
	g := buildTarikGrid()
	second := make([]string, 22)
	second[0] = "20002"
	second[7] = "Other Gown"
	for i, size := range []string{"4", "6", "8"} {
		second[13+i] = size
	}
	data := make([]string, 22)
	data[0] = "D"
	data[11] = "Ivory"
	data[13] = "3"
	g.Rows = append(g.Rows, second, data)

	rows := ParseTarikEdiz(g, Config{})
	var found bool
	for _, r := range rows {
		if r.Style == "20002" && r.Color == "Ivory" && r.Size == "4" {
			found = true
			if r.Stock != 3 {
				t.Fatalf("20002/Ivory/4 stock = %d, want 3", r.Stock)
			}
		}
		if r.Style == "20002" && r.Size == "10" {
			t.Fatal("second style must use its own size columns, not the first style's")
		}
	}
	if !found {
		t.Fatal("expected data under the second style header")
	}
}

func TestParseTarikEdizMisalignedStyleInColorColumn(t *testing.T) {
	g := buildTarikGrid()
	mis := make([]string, 22)
	mis[0] = "D"
	mis[11] = "30003" // style token misaligned into the color column
	mis[13] = "5"
	g.Rows = append(g.Rows, mis)

	rows := ParseTarikEdiz(g, Config{})
	var found bool
	for _, r := range rows {
		if r.Style == "30003" && r.Size == "2" {
			found = true
			if r.Color != "" {
				t.Fatalf("misaligned style row color = %q, want empty", r.Color)
			}
			if r.Stock != 5 {
				t.Fatalf("misaligned style row stock = %d, want 5", r.Stock)
			}
		}
	}
	if !found {
		t.Fatal("expected the misaligned style to be accepted as current style")
	}
}

func TestParseTarikEdizSizeDetectionStopsAfterGap(t *testing.T) {
	styleRow := make([]string, 30)
	styleRow[0] = "40004"
	styleRow[13] = "2"
	styleRow[14] = "4"
	// three consecutive empties end size detection
	styleRow[18] = "99"

	data := make([]string, 30)
	data[0] = "D"
	data[11] = "Red"
	data[13] = "1"
	data[14] = "1"
	data[18] = "7"

	g := Grid{Rows: [][]string{styleRow, data}}
	rows := ParseTarikEdiz(g, Config{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 records (sizes 2,4 only), got %d", len(rows))
	}
	for _, r := range rows {
		if r.Size == "99" {
			t.Fatal("size after a three-column gap must be truncated")
		}
	}
}
