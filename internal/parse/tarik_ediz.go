package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// tarikEdizState names the two-state row machine from §4.2.
type tarikEdizState int

const (
	tarikStateStyleHeader tarikEdizState = iota
	tarikStateDataRow
)

var tarikPureNumericRe = regexp.MustCompile(`^\d+$`)

// ParseTarikEdiz implements the tarik_ediz two-state machine: style-header
// rows declare a style and its size columns; data rows carry a
// discontinued marker or a ship date plus a color and per-size stock.
func ParseTarikEdiz(g Grid, cfg Config) []Row {
	var rows []Row
	state := tarikStateStyleHeader

	var currentStyle string
	var sizeCols []int
	var sizes []string

	for r := 0; r < g.NumRows(); r++ {
		col0 := strings.TrimSpace(g.Cell(r, 0))

		switch state {
		case tarikStateStyleHeader:
			if col0 == "" {
				continue
			}
			currentStyle = col0
			sizeCols, sizes = detectTarikSizeCols(g, r)
			if len(sizeCols) == 0 {
				continue
			}
			state = tarikStateDataRow

		case tarikStateDataRow:
			if col0 == "" {
				continue
			}
			// New style row: column 0 holds neither "D" nor a parseable
			// date, but a fresh style token (possibly misaligned into the
			// color column, handled below).
			isDiscontinuedMarker := col0 == "D"
			_, isDate := ParseDate(col0, cfg.PreferEuropeanDates)

			if !isDiscontinuedMarker && !isDate {
				// Treat as a new style-header row.
				currentStyle = col0
				sizeCols, sizes = detectTarikSizeCols(g, r)
				continue
			}

			color := strings.TrimSpace(g.Cell(r, 11))
			styleForRow := currentStyle
			if tarikPureNumericRe.MatchString(color) {
				// Misaligned style appearing in the color column.
				styleForRow = color
				color = ""
			}

			var shipDate string
			if isDate && !isDiscontinuedMarker {
				shipDate = normalizeTarikDate(col0, cfg.PreferEuropeanDates)
			}

			for i, col := range sizeCols {
				stockRaw := g.Cell(r, col)
				stock := ParseStock(stockRaw, cfg.StockTextMapping)
				row := Row{
					Style:        styleForRow,
					Color:        color,
					Size:         sizes[i],
					StockRaw:     stockRaw,
					Stock:        stock,
					ShipDate:     shipDate,
					Discontinued: isDiscontinuedMarker,
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// detectTarikSizeCols reads the numeric size tokens starting at column 13
// on a style-header row, truncating after three consecutive empty columns.
// Sizes are always read from the row; a configured size list is not
// supported.
func detectTarikSizeCols(g Grid, row int) ([]int, []string) {
	var cols []int
	var sizes []string
	emptyStreak := 0
	for col := 13; col < g.RowLen(row); col++ {
		v := strings.TrimSpace(g.Cell(row, col))
		if v == "" {
			emptyStreak++
			if emptyStreak >= 3 {
				break
			}
			continue
		}
		emptyStreak = 0
		if _, err := strconv.Atoi(v); err == nil {
			cols = append(cols, col)
			sizes = append(sizes, v)
		}
	}
	return cols, sizes
}

// normalizeTarikDate parses a column-0 date string with ParseDate (an
// Excel serial, ISO, or US M/D/YYYY first, European D/M/YYYY only when
// the US reading fails) and returns it as an ISO date, or "" when it
// does not parse.
func normalizeTarikDate(raw string, preferEuropean bool) string {
	t, ok := ParseDate(raw, preferEuropean)
	if !ok {
		return ""
	}
	return FormatISO(t)
}
