package pipeline

import (
	"fmt"
	"regexp"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/parse"
)

func parseISODate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// consolidate implements step 1: multiple manual-upload buffers become one
// logical grid using the first file's header row plus every file's data
// rows (§4.11 manual upload).
func consolidate(buffers []Buffer) (parse.Grid, string, error) {
	if len(buffers) == 0 {
		return parse.Grid{}, "", fmt.Errorf("no buffers to consolidate")
	}

	first, err := parse.ReadGrid(buffers[0].Data, buffers[0].Name)
	if err != nil {
		return parse.Grid{}, "", fmt.Errorf("read %s: %w", buffers[0].Name, err)
	}
	if len(buffers) == 1 {
		return first, buffers[0].Name, nil
	}

	rows := append([][]string{}, first.Rows...)
	for _, b := range buffers[1:] {
		g, err := parse.ReadGrid(b.Data, b.Name)
		if err != nil {
			return parse.Grid{}, "", fmt.Errorf("read %s: %w", b.Name, err)
		}
		if g.NumRows() <= 1 {
			continue
		}
		rows = append(rows, g.Rows[1:]...)
	}
	return parse.Grid{Rows: rows}, buffers[0].Name, nil
}

// compilePatterns converts a source's configured complex-stock patterns
// into parse.CompiledComplexStockPattern, pre-compiling each regex once
// per run. internal/parse deliberately has no dependency on internal/domain,
// so this conversion lives here.
func compilePatterns(patterns []domain.ComplexStockPattern) []parse.CompiledComplexStockPattern {
	out := make([]parse.CompiledComplexStockPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		out = append(out, parse.CompiledComplexStockPattern{
			Name:             p.Name,
			Regex:            re,
			ExtractStockTmpl: p.ExtractStockTmpl,
			ExtractDateTmpl:  p.ExtractDateTmpl,
			MarkDiscontinued: p.MarkDiscontinued,
			MarkSpecialOrder: p.MarkSpecialOrder,
		})
	}
	return out
}

// buildParseConfig assembles parse.Config from a domain.Source. The
// yes/no conversion block folds into the stock-text mapping here so
// every parser's ParseStock cascade picks it up without a special case.
func buildParseConfig(source domain.Source, fileName string, compiled []parse.CompiledComplexStockPattern) parse.Config {
	stockText := source.StockTextMapping
	if source.Cleaning.ConvertYesNo {
		merged := make(map[string]int, len(stockText)+2)
		for k, v := range stockText {
			merged[k] = v
		}
		yes, no := source.Cleaning.YesValue, source.Cleaning.NoValue
		if yes == "" {
			yes = "yes"
		}
		if no == "" {
			no = "no"
		}
		merged[parse.NormalizeStockTextKey(yes)] = 1
		merged[parse.NormalizeStockTextKey(no)] = 0
		stockText = merged
	}
	return parse.Config{
		SourceName:               source.DisplayName,
		FileName:                 fileName,
		ColumnMapping:            source.ColumnMapping,
		StockTextMapping:         stockText,
		ComplexStockPatterns:     compiled,
		PreferEuropeanDates:      false,
		CombinedVariantColumn:    source.Cleaning.CombinedVariantColumn,
		CombinedVariantDelimiter: source.Cleaning.CombinedVariantDelimiter,
		CombinedVariantOrder:     source.Cleaning.CombinedVariantOrder,
	}
}

// ExtractPrefixedVariants parses one raw file buffer against source's
// column mapping and applies step 8's style-prefix pass, the same way the
// per-file manual/url/email path does before the 20-step run. The combine
// adapter (C11) calls this when staging a file so that a later combine
// run can skip steps 1-4 and 8 entirely and feed PreConsolidated straight
// into step 5.
func ExtractPrefixedVariants(source domain.Source, buf Buffer) ([]domain.Variant, error) {
	g, err := parse.ReadGrid(buf.Data, buf.Name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", buf.Name, err)
	}
	compiled := compilePatterns(source.ComplexStock)
	cfg := buildParseConfig(source, buf.Name, compiled)
	format := parse.Detect(g, source.DisplayName, buf.Name)
	rows := parse.Parse(format, g, cfg)
	variants := rowsToVariants(rows)
	return applyPrefix(variants, source), nil
}

// rowsToVariants converts parser output (parse.Row) into canonical
// domain.Variant values, the seam between the decoupled parse package and
// the rest of the pipeline which is free to depend on domain.
func rowsToVariants(rows []parse.Row) []domain.Variant {
	out := make([]domain.Variant, 0, len(rows))
	for _, row := range rows {
		v := domain.Variant{
			Style: row.Style,
			Color: row.Color,
			Size:  row.Size,
			Stock: row.Stock,
			Price: row.Price,
			Cost:  row.Cost,
		}
		v.Flags.Discontinued = row.Discontinued
		v.Flags.SpecialOrder = row.SpecialOrder
		v.Flags.Brand = row.Brand
		v.Flags.HasFutureStock = row.HasFutureStock
		v.Flags.PreserveZeroStock = row.PreserveZeroStock
		if row.ShipDate != "" {
			if t, ok := parseISODate(row.ShipDate); ok {
				v.ShipDate = &t
			}
		}
		v.RawData = map[string]string{
			"style": row.Style, "color": row.Color, "size": row.Size, "stockRaw": row.StockRaw,
		}
		out = append(out, v)
	}
	return out
}
