package parse

import "strings"

// defaultOTSSizes is the fallback 2-18 range used when no
// size_whole_comp column supplies an explicit size list.
var defaultOTSSizes = []string{"2", "4", "6", "8", "10", "12", "14", "16", "18"}

// ParseOTS implements the ots_format layout: columns named ots1..otsN map
// positionally to an explicit size list, either taken from a
// size_whole_comp column's whitespace-split contents or the default range.
func ParseOTS(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		headerRow = 0
	}

	styleCol := findFirstColumnByKeywords(g, headerRow, "STYLE", "CODE", "ITEM")
	colorCol := findColorColumnExcludingCode(g, headerRow)
	sizeListCol := findFirstColumnByKeywords(g, headerRow, "SIZE_WHOLE_COMP", "SIZE WHOLE COMP")

	var otsCols []int
	for col := 0; col < g.RowLen(headerRow); col++ {
		if otsHeaderRe.MatchString(strings.TrimSpace(g.Cell(headerRow, col))) {
			otsCols = append(otsCols, col)
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

		sizes := defaultOTSSizes
		if sizeListCol >= 0 {
			if raw := strings.TrimSpace(g.Cell(r, sizeListCol)); raw != "" {
				sizes = strings.Fields(raw)
			}
		}

		for i, col := range otsCols {
			if i >= len(sizes) {
				break
			}
			stockRaw := g.Cell(r, col)
			stock := ParseStock(stockRaw, cfg.StockTextMapping)
			rows = append(rows, Row{
				Style:    style,
				Color:    color,
				Size:     sizes[i],
				StockRaw: stockRaw,
				Stock:    stock,
			})
		}
	}
	return rows
}
