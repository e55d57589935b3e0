package parse

import "strings"

// grnSizeTokens is the closed set of size headers grn_invoice recognizes,
// with leading-zero normalization (02 -> 2) applied at lookup time.
var grnSizeTokens = map[string]bool{
	"000": true, "00": true, "0": true,
	"2": true, "4": true, "6": true, "8": true, "10": true, "12": true,
	"14": true, "16": true, "18": true, "20": true, "22": true, "24": true,
}

// ParseGRNInvoice implements the grn_invoice layout: a header row
// containing both "code" and "color", with size headers from a closed
// set normalized via leading-zero stripping (§4.2).
func ParseGRNInvoice(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findGRNHeaderRow(g)
	if headerRow < 0 {
		return nil
	}

	styleCol := findFirstColumnByKeywords(g, headerRow, "CODE")
	colorCol := findFirstColumnByKeywords(g, headerRow, "COLOR", "COLOUR")

	var sizeCols []int
	var sizeTokens []string
	for col := 0; col < g.RowLen(headerRow); col++ {
		h := strings.TrimSpace(g.Cell(headerRow, col))
		norm := normalizeGRNSize(h)
		if grnSizeTokens[norm] {
			sizeCols = append(sizeCols, col)
			sizeTokens = append(sizeTokens, norm)
		}
	}

	for r := headerRow + 1; r < g.NumRows(); r++ {
		style := ""
		if styleCol >= 0 {
			style = strings.TrimSpace(g.Cell(r, styleCol))
		}
		if style == "" {
			continue
		}
		color := ""
		if colorCol >= 0 {
			color = strings.TrimSpace(g.Cell(r, colorCol))
		}

		for i, col := range sizeCols {
			stockRaw := g.Cell(r, col)
			stock := ParseStock(stockRaw, cfg.StockTextMapping)
			rows = append(rows, Row{
				Style:    style,
				Color:    color,
				Size:     sizeTokens[i],
				StockRaw: stockRaw,
				Stock:    stock,
			})
		}
	}
	return rows
}

func findGRNHeaderRow(g Grid) int {
	limit := g.NumRows()
	if limit > 10 {
		limit = 10
	}
	for row := 0; row < limit; row++ {
		hasCode, hasColor := false, false
		for col := 0; col < g.RowLen(row); col++ {
			h := strings.ToUpper(strings.TrimSpace(g.Cell(row, col)))
			if strings.Contains(h, "CODE") {
				hasCode = true
			}
			if strings.Contains(h, "COLOR") || strings.Contains(h, "COLOUR") {
				hasColor = true
			}
		}
		if hasCode && hasColor {
			return row
		}
	}
	return -1
}

func normalizeGRNSize(h string) string {
	up := strings.ToUpper(strings.TrimSpace(h))
	switch up {
	case "OOO":
		return "000"
	case "OO":
		return "00"
	}
	trimmed := strings.TrimLeft(up, "0")
	if trimmed == "" && up != "" {
		return up
	}
	if trimmed != "" && trimmed != up && isAllDigits(trimmed) {
		return trimmed
	}
	return up
}
