package parse

import "strings"

// ParseRow implements the generic row (column-map-driven) fallback
// parser: locates the header row by scanning rows 0-9 for the most
// keyword matches (row 0 when no row matches), then reads one variant per data row using the
// source's column mapping. Supports a combined-variant column (splitting
// STYLE{delim}COLOR{delim}SIZE) and conditional/direct ship-date mapping
// (§4.2).
func ParseRow(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		headerRow = 0
	}

	colIdx := buildHeaderIndex(g, headerRow)

	styleCol := resolveColumn(colIdx, cfg.ColumnMapping, "style", "sku", "code", "id")
	colorCol := resolveColumn(colIdx, cfg.ColumnMapping, "color", "colour")
	sizeCol := resolveColumn(colIdx, cfg.ColumnMapping, "size")
	stockCol := resolveColumn(colIdx, cfg.ColumnMapping, "stock", "qty", "quantity")
	priceCol := resolveColumn(colIdx, cfg.ColumnMapping, "price", "msrp")
	costCol := resolveColumn(colIdx, cfg.ColumnMapping, "cost")

	combinedCol := -1
	if cfg.CombinedVariantColumn != "" {
		combinedCol = colIdx[strings.ToLower(cfg.CombinedVariantColumn)]
	}

	conditionalCol, conditionalDateSrcCol, directDateCol := -1, -1, -1
	if cfg.ConditionalShipDateColumn != "" {
		conditionalCol = colIdx[strings.ToLower(cfg.ConditionalShipDateColumn)]
		conditionalDateSrcCol = colIdx[strings.ToLower(cfg.ConditionalShipDateSource)]
	}
	if cfg.DirectShipDateColumn != "" {
		directDateCol = colIdx[strings.ToLower(cfg.DirectShipDateColumn)]
	}

	for r := headerRow + 1; r < g.NumRows(); r++ {
		var style, color, size string

		if combinedCol >= 0 {
			combined := g.Cell(r, combinedCol)
			style, color, size = splitCombinedVariant(combined, cfg.CombinedVariantDelimiter, cfg.CombinedVariantOrder)
		} else {
			if styleCol >= 0 {
				style = strings.TrimSpace(g.Cell(r, styleCol))
			}
			if colorCol >= 0 {
				color = strings.TrimSpace(g.Cell(r, colorCol))
			}
			if sizeCol >= 0 {
				size = strings.TrimSpace(g.Cell(r, sizeCol))
			}
		}

		if style == "" {
			continue
		}

		stockRaw := ""
		if stockCol >= 0 {
			stockRaw = g.Cell(r, stockCol)
		}

		var price, cost *float64
		if priceCol >= 0 {
			price = parsePriceCell(g.Cell(r, priceCol))
		}
		if costCol >= 0 {
			cost = parsePriceCell(g.Cell(r, costCol))
		}

		shipDate := ""
		if conditionalCol >= 0 && conditionalDateSrcCol >= 0 {
			if strings.EqualFold(strings.TrimSpace(g.Cell(r, conditionalCol)), cfg.ConditionalShipDateValue) {
				if t, ok := ParseDate(strings.TrimSpace(g.Cell(r, conditionalDateSrcCol)), cfg.PreferEuropeanDates); ok {
					shipDate = FormatISO(t)
				}
			}
		} else if directDateCol >= 0 {
			if t, ok := ParseDate(strings.TrimSpace(g.Cell(r, directDateCol)), cfg.PreferEuropeanDates); ok {
				shipDate = FormatISO(t)
			}
		}

		rows = append(rows, Row{
			Style:    style,
			Color:    color,
			Size:     size,
			StockRaw: stockRaw,
			Stock:    ParseStock(stockRaw, cfg.StockTextMapping),
			Price:    price,
			Cost:     cost,
			ShipDate: shipDate,
		})
	}
	return rows
}

func buildHeaderIndex(g Grid, headerRow int) map[string]int {
	idx := make(map[string]int)
	for col := 0; col < g.RowLen(headerRow); col++ {
		h := strings.ToLower(strings.TrimSpace(g.Cell(headerRow, col)))
		if h == "" {
			continue
		}
		if _, exists := idx[h]; !exists {
			idx[h] = col
		}
	}
	return idx
}

// resolveColumn checks the explicit per-field column mapping first, then
// falls back to scanning the header index for the field name itself or
// any of the given keywords.
func resolveColumn(colIdx map[string]int, mapping map[string]string, field string, keywords ...string) int {
	if mapping != nil {
		if headerName, ok := mapping[field]; ok {
			if col, ok := colIdx[strings.ToLower(headerName)]; ok {
				return col
			}
		}
	}
	for header, col := range colIdx {
		for _, kw := range append([]string{field}, keywords...) {
			if strings.Contains(header, kw) {
				return col
			}
		}
	}
	return -1
}

func splitCombinedVariant(combined, delimiter string, order []string) (style, color, size string) {
	if delimiter == "" {
		delimiter = "-"
	}
	parts := strings.Split(combined, delimiter)
	if len(order) == 0 {
		order = []string{"style", "color", "size"}
	}
	values := make(map[string]string)
	for i, field := range order {
		if i < len(parts) {
			values[field] = strings.TrimSpace(parts[i])
		}
	}
	return values["style"], values["color"], values["size"]
}
