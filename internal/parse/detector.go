package parse

import (
	"regexp"
	"strings"
)

// Format identifies one of the nine vendor layouts or the generic row fallback.
type Format string

const (
	FormatJovaniSale      Format = "jovani_sale"
	FormatFeriani         Format = "feriani"
	FormatTarikEdiz       Format = "tarik_ediz"
	FormatSherriHill      Format = "sherri_hill"
	FormatGenericPivot    Format = "generic_pivot"
	FormatPRDateHeaders   Format = "pr_date_headers"
	FormatGRNInvoice      Format = "grn_invoice"
	FormatStoreMultibrand Format = "store_multibrand"
	FormatOTS             Format = "ots_format"
	FormatRow             Format = "row"
)

var otsHeaderRe = regexp.MustCompile(`(?i)^ots\d+$`)
var prDateHeaderRe = regexp.MustCompile(`^4\d{4}$`)

var sizeHeaderTokens = map[string]bool{
	"000": true, "00": true, "0": true, "OOO": true, "OO": true,
	"2": true, "4": true, "6": true, "8": true, "10": true, "12": true,
	"14": true, "16": true, "18": true, "20": true, "22": true, "24": true,
	"26": true, "28": true, "30": true, "32": true, "34": true, "36": true,
	"XXS": true, "XS": true, "S": true, "M": true, "L": true, "XL": true,
	"XXL": true, "2XL": true, "3XL": true, "4XL": true, "5XL": true,
}

// Detect implements C1: name/filename heuristics, then content heuristics,
// then header-shape heuristics, returning the first match. An empty
// Format result means "no match"; the caller falls back to FormatRow.
func Detect(g Grid, sourceName, fileName string) Format {
	if f, ok := detectByNameHints(sourceName, fileName); ok {
		return f
	}
	if f, ok := detectByContent(g); ok {
		return f
	}
	if f, ok := detectByHeaderShape(g); ok {
		return f
	}
	return ""
}

func detectByNameHints(sourceName, fileName string) (Format, bool) {
	combined := strings.ToUpper(sourceName + " " + fileName)

	hasJovani := strings.Contains(combined, "JOVANI")
	hasSale := strings.Contains(combined, "SALE")
	if hasJovani && hasSale {
		return FormatJovaniSale, true
	}
	hasGIA := strings.Contains(combined, "GIA")
	hasFrancoOrInv := strings.Contains(combined, "FRANCO") || strings.Contains(combined, "INV")
	if hasGIA && hasFrancoOrInv {
		return FormatFeriani, true
	}
	if strings.Contains(combined, "TARIK") || strings.Contains(combined, "EDIZ") {
		return FormatTarikEdiz, true
	}
	if strings.Contains(combined, "SHERRI") && strings.Contains(combined, "HILL") {
		return FormatSherriHill, true
	}
	if strings.Contains(combined, "PIVOT") {
		return FormatGenericPivot, true
	}
	if strings.Contains(combined, "GRN") {
		return FormatGRNInvoice, true
	}
	if strings.Contains(combined, "MULTIBRAND") || strings.Contains(combined, "MULTI-BRAND") {
		return FormatStoreMultibrand, true
	}
	if strings.Contains(combined, "OTS") {
		return FormatOTS, true
	}
	return "", false
}

func detectByContent(g Grid) (Format, bool) {
	firstCell := strings.ToLower(strings.TrimSpace(g.Cell(0, 0)))
	if strings.Contains(firstCell, "up-to-date") || strings.Contains(firstCell, "inventory report") {
		return FormatTarikEdiz, true
	}
	return "", false
}

func detectByHeaderShape(g Grid) (Format, bool) {
	headerRow := findMostLikelyHeaderRow(g)
	if headerRow < 0 {
		return "", false
	}

	var hasDelivery, hasStyle, hasColor, hasSpecialDate bool
	var hasCodeAndColor bool
	var otsCount, prDateCount, sizeCount int
	firstSizeCol := -1

	n := g.RowLen(headerRow)
	hasCode := false
	for col := 0; col < n; col++ {
		h := strings.ToUpper(strings.TrimSpace(g.Cell(headerRow, col)))
		switch {
		case otsHeaderRe.MatchString(h):
			otsCount++
		case prDateHeaderRe.MatchString(h):
			prDateCount++
		case strings.Contains(h, "SPECIAL DATE"):
			hasSpecialDate = true
		case h == "DELIVERY":
			hasDelivery = true
		case h == "STYLE":
			hasStyle = true
		case h == "COLOR" || h == "COLOUR":
			hasColor = true
		case h == "CODE":
			hasCode = true
		}
		if sizeHeaderTokens[h] {
			sizeCount++
			if firstSizeCol < 0 {
				firstSizeCol = col
			}
		}
	}
	hasCodeAndColor = hasCode && hasColor

	if otsCount >= 1 {
		return FormatOTS, true
	}
	if hasSpecialDate {
		return FormatSherriHill, true
	}
	if hasDelivery && hasStyle && hasColor {
		return FormatFeriani, true
	}
	if prDateCount >= 3 {
		return FormatPRDateHeaders, true
	}
	if hasCodeAndColor {
		return FormatGRNInvoice, true
	}
	if sizeCount >= 5 {
		if firstSizeCol == 1 {
			return FormatJovaniSale, true
		}
		return FormatGenericPivot, true
	}

	return "", false
}

// findMostLikelyHeaderRow scans rows 0-9 for the row with the most matches
// against the generic keyword vocabulary, mirroring the row parser's own
// header-row heuristic (§4.2 "row (generic)").
func findMostLikelyHeaderRow(g Grid) int {
	best, bestScore := -1, 0
	limit := g.NumRows()
	if limit > 10 {
		limit = 10
	}
	for row := 0; row < limit; row++ {
		score := 0
		for col := 0; col < g.RowLen(row); col++ {
			if headerKeywordRe.MatchString(g.Cell(row, col)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = row, score
		}
	}
	return best
}

var headerKeywordRe = regexp.MustCompile(`(?i)sku|code|id|name|title|desc|style|color|colour|size|stock|qty|price|cost|msrp`)
