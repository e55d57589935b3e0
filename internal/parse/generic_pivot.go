package parse

import "strings"

const defaultPivotColor = "DEFAULT"

// ParseGenericPivot implements the generic_pivot layout: a header row with
// >=5 size-pattern matches, a style column named STYLE/CODE/ITEM, a color
// column named COLOR but not CODE, and optional date/discontinued columns
// (§4.2).
func ParseGenericPivot(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findPivotHeaderRow(g)
	if headerRow < 0 {
		return nil
	}

	styleCol := findFirstColumnByKeywords(g, headerRow, "STYLE", "CODE", "ITEM")
	colorCol := findColorColumnExcludingCode(g, headerRow)
	dateCol := findFirstColumnByKeywords(g, headerRow, "DATE", "SHIP")
	discontinuedCol := findFirstColumnByKeywords(g, headerRow, "DISCONTINUED", "STATUS")

	var sizeCols []int
	var sizeTokens []string
	for col := 0; col < g.RowLen(headerRow); col++ {
		if col == styleCol || col == colorCol || col == dateCol || col == discontinuedCol {
			continue
		}
		h := strings.TrimSpace(g.Cell(headerRow, col))
		if h == "" {
			continue
		}
		sizeCols = append(sizeCols, col)
		sizeTokens = append(sizeTokens, h)
	}

	for r := headerRow + 1; r < g.NumRows(); r++ {
		style := ""
		if styleCol >= 0 {
			style = strings.TrimSpace(g.Cell(r, styleCol))
		}
		if style == "" {
			continue
		}
		color := defaultPivotColor
		if colorCol >= 0 {
			if c := strings.TrimSpace(g.Cell(r, colorCol)); c != "" {
				color = c
			}
		}
		shipDate := ""
		if dateCol >= 0 {
			if t, ok := ParseDate(strings.TrimSpace(g.Cell(r, dateCol)), cfg.PreferEuropeanDates); ok {
				shipDate = FormatISO(t)
			}
		}
		discontinued := false
		if discontinuedCol >= 0 {
			discontinued = strings.TrimSpace(g.Cell(r, discontinuedCol)) != ""
		}

		for i, col := range sizeCols {
			stockRaw := g.Cell(r, col)
			stock := ParseStock(stockRaw, cfg.StockTextMapping)
			rows = append(rows, Row{
				Style:        style,
				Color:        color,
				Size:         sizeTokens[i],
				StockRaw:     stockRaw,
				Stock:        stock,
				ShipDate:     shipDate,
				Discontinued: discontinued,
			})
		}
	}
	return rows
}

func findPivotHeaderRow(g Grid) int {
	limit := g.NumRows()
	if limit > 10 {
		limit = 10
	}
	for row := 0; row < limit; row++ {
		count := 0
		for col := 0; col < g.RowLen(row); col++ {
			if sizeHeaderTokens[strings.ToUpper(strings.TrimSpace(g.Cell(row, col)))] {
				count++
			}
		}
		if count >= 5 {
			return row
		}
	}
	return -1
}

func findFirstColumnByKeywords(g Grid, row int, keywords ...string) int {
	for col := 0; col < g.RowLen(row); col++ {
		h := strings.ToUpper(strings.TrimSpace(g.Cell(row, col)))
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return col
			}
		}
	}
	return -1
}

func findColorColumnExcludingCode(g Grid, row int) int {
	for col := 0; col < g.RowLen(row); col++ {
		h := strings.ToUpper(strings.TrimSpace(g.Cell(row, col)))
		if (strings.Contains(h, "COLOR") || strings.Contains(h, "COLOUR")) && !strings.Contains(h, "CODE") {
			return col
		}
	}
	return -1
}
