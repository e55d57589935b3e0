package parse

import "strings"

// ParsePRDateHeaders implements the pr_date_headers layout: headers
// matching ^4\d{4}$ are Excel serial dates; an "available" column supplies
// current stock; size is the style's "-N" suffix or "ONE SIZE" (§4.2).
func ParsePRDateHeaders(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		headerRow = 0
	}

	styleCol := findFirstColumnByKeywords(g, headerRow, "STYLE", "CODE", "ITEM")
	colorCol := findColorColumnExcludingCode(g, headerRow)
	availableCol := findFirstColumnByKeywords(g, headerRow, "AVAILABLE")

	var dateCols []int
	for col := 0; col < g.RowLen(headerRow); col++ {
		h := strings.TrimSpace(g.Cell(headerRow, col))
		if prDateHeaderRe.MatchString(h) {
			dateCols = append(dateCols, col)
		}
	}

	for r := headerRow + 1; r < g.NumRows(); r++ {
		rawStyle := ""
		if styleCol >= 0 {
			rawStyle = strings.TrimSpace(g.Cell(r, styleCol))
		}
		if rawStyle == "" {
			continue
		}
		style, size := splitStyleSizeSuffix(rawStyle)
		color := ""
		if colorCol >= 0 {
			color = strings.TrimSpace(g.Cell(r, colorCol))
		}

		if availableCol >= 0 {
			stockRaw := g.Cell(r, availableCol)
			rows = append(rows, Row{
				Style:    style,
				Color:    color,
				Size:     size,
				StockRaw: stockRaw,
				Stock:    ParseStock(stockRaw, cfg.StockTextMapping),
			})
		}

		for _, col := range dateCols {
			h := strings.TrimSpace(g.Cell(headerRow, col))
			serial := h
			t, ok := ParseDate(serial, cfg.PreferEuropeanDates)
			if !ok {
				continue
			}
			stockRaw := g.Cell(r, col)
			stock := ParseStock(stockRaw, cfg.StockTextMapping)
			if stock <= 0 {
				continue
			}
			rows = append(rows, Row{
				Style:             style,
				Color:             color,
				Size:              size,
				StockRaw:          stockRaw,
				Stock:             stock,
				ShipDate:          FormatISO(t),
				HasFutureStock:    true,
				PreserveZeroStock: true,
			})
		}
	}
	return rows
}

// splitStyleSizeSuffix extracts a trailing "-N" size suffix from a style
// token, defaulting to "ONE SIZE" when absent.
func splitStyleSizeSuffix(raw string) (style, size string) {
	idx := strings.LastIndex(raw, "-")
	if idx <= 0 || idx == len(raw)-1 {
		return raw, "ONE SIZE"
	}
	suffix := raw[idx+1:]
	if !isAllDigits(suffix) {
		return raw, "ONE SIZE"
	}
	return raw[:idx], suffix
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
