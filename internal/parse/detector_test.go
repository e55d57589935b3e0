package parse

import "testing"

func TestDetectByNameHints(t *testing.T) {
	cases := []struct {
		sourceName, fileName string
		want                 Format
	}{
		{"Jovani Sale", "inventory.xlsx", FormatJovaniSale},
		{"GIA", "franco_inventory.xlsx", FormatFeriani},
		{"Gia Designs", "INV-2026.csv", FormatFeriani},
		{"Tarik Ediz", "stock.xlsx", FormatTarikEdiz},
		{"", "ediz_latest.xls", FormatTarikEdiz},
		{"Sherri Hill", "report.xlsx", FormatSherriHill},
		{"Store", "grn_invoice_march.csv", FormatGRNInvoice},
		{"Multibrand Store", "stock.xlsx", FormatStoreMultibrand},
	}
	for _, tc := range cases {
		got := Detect(Grid{}, tc.sourceName, tc.fileName)
		if got != tc.want {
			t.Errorf("Detect(%q, %q) = %q, want %q", tc.sourceName, tc.fileName, got, tc.want)
		}
	}
}

func TestDetectByContentFirstCell(t *testing.T) {
	g := Grid{Rows: [][]string{{"Up-to-Date Product Inventory Report"}}}
	if got := Detect(g, "Vendor", "file.xlsx"); got != FormatTarikEdiz {
		t.Fatalf("content heuristic = %q, want tarik_ediz", got)
	}
}

func TestDetectOTSHeaders(t *testing.T) {
	g := Grid{Rows: [][]string{{"style", "color", "ots1", "ots2", "ots3"}}}
	if got := Detect(g, "Vendor", "file.xlsx"); got != FormatOTS {
		t.Fatalf("ots header shape = %q", got)
	}
}

func TestDetectSpecialDateHeaders(t *testing.T) {
	g := Grid{Rows: [][]string{{"Style", "Color", "Desc", "Price", "4", "Special Date", "6", "Special Date"}}}
	if got := Detect(g, "Vendor", "file.xlsx"); got != FormatSherriHill {
		t.Fatalf("special-date header shape = %q", got)
	}
}

func TestDetectFerianiHeaderTrio(t *testing.T) {
	g := Grid{Rows: [][]string{{"DELIVERY", "STYLE", "COLOR", "38", "40", "42"}}}
	if got := Detect(g, "Vendor", "file.xlsx"); got != FormatFeriani {
		t.Fatalf("delivery+style+color = %q", got)
	}
}

func TestDetectPRDateHeaders(t *testing.T) {
	g := Grid{Rows: [][]string{{"style", "color", "available", "45658", "45689", "45717"}}}
	if got := Detect(g, "Vendor", "file.xlsx"); got != FormatPRDateHeaders {
		t.Fatalf("excel-serial headers = %q", got)
	}
}

func TestDetectJovaniVsGenericPivotBySizeColumnStart(t *testing.T) {
	jovani := Grid{Rows: [][]string{{"Style", "00", "0", "2", "4", "6", "8"}}}
	if got := Detect(jovani, "Vendor", "file.xlsx"); got != FormatJovaniSale {
		t.Fatalf("size pattern starting at column 1 = %q, want jovani_sale", got)
	}
	pivot := Grid{Rows: [][]string{{"Style", "Color", "Desc", "00", "0", "2", "4", "6", "8"}}}
	if got := Detect(pivot, "Vendor", "file.xlsx"); got != FormatGenericPivot {
		t.Fatalf("size pattern starting later = %q, want generic_pivot", got)
	}
}

func TestDetectGRNByCodeAndColor(t *testing.T) {
	g := Grid{Rows: [][]string{{"Code", "Color", "Desc", "Qty"}}}
	if got := Detect(g, "Vendor", "file.xlsx"); got != FormatGRNInvoice {
		t.Fatalf("code+color header = %q", got)
	}
}

func TestDetectNoMatchReturnsEmpty(t *testing.T) {
	g := Grid{Rows: [][]string{{"sku", "qty"}, {"A1", "3"}}}
	if got := Detect(g, "Plain Vendor", "feed.csv"); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
}
