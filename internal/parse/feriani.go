package parse

import "strings"

// ParseFeriani implements the feriani/gia layout: DELIVERY (carried
// forward as current ship-date), STYLE (carried forward), COLOR per-row,
// then numeric size columns (§4.2).
func ParseFeriani(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		headerRow = 0
	}

	deliveryCol := findColumnByKeyword(g, headerRow, "DELIVERY")
	styleCol := findColumnByKeyword(g, headerRow, "STYLE")
	colorCol := findColumnByKeyword(g, headerRow, "COLOR")
	if colorCol < 0 {
		colorCol = findColumnByKeyword(g, headerRow, "COLOUR")
	}

	var sizeCols []int
	var sizeTokens []string
	for col := 0; col < g.RowLen(headerRow); col++ {
		if col == deliveryCol || col == styleCol || col == colorCol {
			continue
		}
		h := strings.TrimSpace(g.Cell(headerRow, col))
		if h == "" {
			continue
		}
		sizeCols = append(sizeCols, col)
		sizeTokens = append(sizeTokens, h)
	}

	var currentStyle, currentShipDate string

	for r := headerRow + 1; r < g.NumRows(); r++ {
		if deliveryCol >= 0 {
			delivery := strings.TrimSpace(g.Cell(r, deliveryCol))
			if delivery != "" {
				if strings.EqualFold(delivery, "NOW") {
					currentShipDate = ""
				} else if t, ok := ParseDate(delivery, cfg.PreferEuropeanDates); ok {
					currentShipDate = FormatISO(t)
				}
			}
		}
		if styleCol >= 0 {
			if s := strings.TrimSpace(g.Cell(r, styleCol)); s != "" {
				currentStyle = s
			}
		}
		if currentStyle == "" {
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
				Style:    currentStyle,
				Color:    color,
				Size:     sizeTokens[i],
				StockRaw: stockRaw,
				Stock:    stock,
				ShipDate: currentShipDate,
			})
		}
	}
	return rows
}
