package parse

import "strings"

// ParseSherriHill implements the paired-column layout from §4.2: a size
// header at even column indices 4,6,8,... with a "Special Date" column
// immediately after each. Stock cells use text values mapped through the
// source's stock-text config.
func ParseSherriHill(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		headerRow = 0
	}
	styleCol, colorCol := findColumnByKeyword(g, headerRow, "STYLE"), findColumnByKeyword(g, headerRow, "COLOR")
	if styleCol < 0 {
		styleCol = 0
	}
	if colorCol < 0 {
		colorCol = 1
	}

	var sizePairs [][2]int // {sizeCol, specialDateCol}
	for col := 4; col+1 < g.RowLen(headerRow); col += 2 {
		h := strings.TrimSpace(g.Cell(headerRow, col))
		if h == "" {
			continue
		}
		sizePairs = append(sizePairs, [2]int{col, col + 1})
	}

	for r := headerRow + 1; r < g.NumRows(); r++ {
		style := strings.TrimSpace(g.Cell(r, styleCol))
		color := strings.TrimSpace(g.Cell(r, colorCol))
		if style == "" {
			continue
		}
		for _, pair := range sizePairs {
			sizeToken := strings.TrimSpace(g.Cell(headerRow, pair[0]))
			stockRaw := g.Cell(r, pair[0])
			stock := ParseStock(stockRaw, cfg.StockTextMapping)
			shipDate := ""
			if t, ok := ParseDate(strings.TrimSpace(g.Cell(r, pair[1])), cfg.PreferEuropeanDates); ok {
				shipDate = FormatISO(t)
			}
			rows = append(rows, Row{
				Style:    style,
				Color:    color,
				Size:     sizeToken,
				StockRaw: stockRaw,
				Stock:    stock,
				ShipDate: shipDate,
			})
		}
	}
	return rows
}

func findColumnByKeyword(g Grid, headerRow int, keyword string) int {
	for col := 0; col < g.RowLen(headerRow); col++ {
		if strings.Contains(strings.ToUpper(g.Cell(headerRow, col)), keyword) {
			return col
		}
	}
	return -1
}
