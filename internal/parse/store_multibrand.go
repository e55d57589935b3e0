package parse

import "strings"

// knownBrands is the closed list of brand strings scanned inside a
// store_multibrand product name to tag a variant's Brand, which later
// overrides the data source name as the style prefix (§4.2 step 8).
var knownBrands = []string{
	"Jovani", "Sherri Hill", "Tarik Ediz", "Feriani", "La Femme",
	"Mac Duggal", "Jasz Couture", "Johnathan Kayne", "Portia and Scarlett",
	"Rachel Allan",
}

// ParseStoreMultibrand implements the row-per-variant layout with a
// product name column scanned against a closed brand list (§4.2).
func ParseStoreMultibrand(g Grid, cfg Config) []Row {
	var rows []Row

	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		headerRow = 0
	}

	styleCol := findFirstColumnByKeywords(g, headerRow, "STYLE", "CODE")
	colorCol := findColorColumnExcludingCode(g, headerRow)
	sizeCol := findFirstColumnByKeywords(g, headerRow, "SIZE")
	stockCol := findFirstColumnByKeywords(g, headerRow, "STOCK", "QTY")
	nameCol := findFirstColumnByKeywords(g, headerRow, "NAME", "PRODUCT", "TITLE")

	for r := headerRow + 1; r < g.NumRows(); r++ {
		style := ""
		if styleCol >= 0 {
			style = strings.TrimSpace(g.Cell(r, styleCol))
		}
		if style == "" {
			continue
		}
		color, size := "", ""
		if colorCol >= 0 {
			color = strings.TrimSpace(g.Cell(r, colorCol))
		}
		if sizeCol >= 0 {
			size = strings.TrimSpace(g.Cell(r, sizeCol))
		}
		stockRaw := ""
		if stockCol >= 0 {
			stockRaw = g.Cell(r, stockCol)
		}

		brand := ""
		if nameCol >= 0 {
			name := g.Cell(r, nameCol)
			brand = detectKnownBrand(name)
		}

		rows = append(rows, Row{
			Style:    style,
			Color:    color,
			Size:     size,
			StockRaw: stockRaw,
			Stock:    ParseStock(stockRaw, cfg.StockTextMapping),
			Brand:    brand,
		})
	}
	return rows
}

func detectKnownBrand(productName string) string {
	up := strings.ToUpper(productName)
	for _, brand := range knownBrands {
		if strings.Contains(up, strings.ToUpper(brand)) {
			return brand
		}
	}
	return ""
}
