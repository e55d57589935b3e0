// Package rules implements the Rule Engine (C4): applyImportRules, a
// single ordered transform over the 11 fixed-order business rules from
// §4.4.
package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/parse"
	"github.com/fenwickretail/invpipe/internal/sku"
)

// Stats counts each rule's outcome, returned alongside the transformed
// stream (§4.4).
type Stats struct {
	ValueReplacements   int
	DatesNormalized     int
	StockTextMapped     int
	ComplexStockMatched int
	DiscontinuedFiltered int
	RequiredFieldDropped int
	FutureStockApplied  int
	ZeroPriceDropped    int
	PriceClamped        int
	PriceDropped        int
	SalePricingApplied  int
	MinStockDropped     int
}

// Apply runs applyImportRules: the 11 ordered rules from §4.4, each
// skipped when its config section is disabled or absent.
func Apply(variants []domain.Variant, source domain.Source, compiledPatterns []parse.CompiledComplexStockPattern) ([]domain.Variant, Stats) {
	var stats Stats
	out := variants

	out = applyValueReplacements(out, source.ValueReplacement, &stats)
	out = applyDateNormalization(out, source, &stats)
	out = applyStockTextMappings(out, source.StockTextMapping, &stats)
	out = applyComplexStockPatterns(out, compiledPatterns, &stats)
	out = applyDiscontinuedDetection(out, source.Discontinued, &stats)
	out = applyRequiredFields(out, source.ColumnMapping, &stats)
	out = applyFutureStockConfig(out, source.FutureStock, &stats)
	out = applyRegularPriceConfig(out, source.RegularPrice, &stats)
	out = applyPriceFloorCeiling(out, source.PriceFloorCeil, &stats)
	out = applyColumnSalePricing(out, source.SalePrice, &stats)
	out = applyMinimumStockThreshold(out, source.SizeLimit, &stats)

	return out, stats
}

// Rule 1: per-field literal string replacements.
func applyValueReplacements(variants []domain.Variant, rules []domain.ValueReplacementRule, stats *Stats) []domain.Variant {
	if len(rules) == 0 {
		return variants
	}
	for i := range variants {
		for _, rule := range rules {
			applied := false
			switch strings.ToLower(rule.Field) {
			case "style":
				if variants[i].Style == rule.FindValue {
					variants[i].Style = rule.ReplaceWith
					applied = true
				}
			case "color":
				if variants[i].Color == rule.FindValue {
					variants[i].Color = rule.ReplaceWith
					applied = true
				}
			case "size":
				if variants[i].Size == rule.FindValue {
					variants[i].Size = rule.ReplaceWith
					applied = true
				}
			}
			if applied {
				stats.ValueReplacements++
			}
		}
	}
	return variants
}

// Rule 2: ship-date strings still carried as raw text in
// RawData["shipDateRaw"] are parsed with parse.ParseDate's US-first order.
// There is no per-source date-order setting; an ambiguous day/month string
// is always read as US.
func applyDateNormalization(variants []domain.Variant, source domain.Source, stats *Stats) []domain.Variant {
	for i := range variants {
		if variants[i].RawData == nil {
			continue
		}
		raw, ok := variants[i].RawData["shipDateRaw"]
		if !ok || raw == "" {
			continue
		}
		if t, ok := parse.ParseDate(raw, false /* US order first */); ok {
			variants[i].ShipDate = &t
			stats.DatesNormalized++
		}
	}
	return variants
}

// Rule 3: text -> integer stock mappings applied to stock fields that
// survived parsing as strings (handled upstream by parse.ParseStock in
// the common case; this rule re-applies the mapping to RawData["stockRaw"]
// so a mapping added after initial parse still takes effect).
func applyStockTextMappings(variants []domain.Variant, mappings map[string]int, stats *Stats) []domain.Variant {
	if len(mappings) == 0 {
		return variants
	}
	for i := range variants {
		if variants[i].RawData == nil {
			continue
		}
		raw, ok := variants[i].RawData["stockRaw"]
		if !ok {
			continue
		}
		key := parse.NormalizeStockTextKey(raw)
		if v, ok := mappings[key]; ok {
			variants[i].Stock = v
			stats.StockTextMapped++
		}
	}
	return variants
}

// Rule 4: per-pattern regex match on raw stock cell text.
func applyComplexStockPatterns(variants []domain.Variant, patterns []parse.CompiledComplexStockPattern, stats *Stats) []domain.Variant {
	if len(patterns) == 0 {
		return variants
	}
	for i := range variants {
		raw := ""
		if variants[i].RawData != nil {
			raw = variants[i].RawData["stockRaw"]
		}
		if raw == "" {
			continue
		}
		stockStr, dateStr, discontinued, specialOrder, matched := parse.ApplyComplexStock(raw, patterns)
		if !matched {
			continue
		}
		stats.ComplexStockMatched++
		if n, ok := parseIntLoose(stockStr); ok {
			variants[i].Stock = n
		}
		if dateStr != "" {
			if t, ok := parse.ParseDate(dateStr, false); ok {
				variants[i].ShipDate = &t
			}
		}
		variants[i].Flags.Discontinued = variants[i].Flags.Discontinued || discontinued
		variants[i].Flags.SpecialOrder = variants[i].Flags.SpecialOrder || specialOrder
	}
	return variants
}

func parseIntLoose(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n := 0
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// Rule 5: keyword list matched against a configured column or a status
// flag; may unset items when skipDiscontinued is true.
func applyDiscontinuedDetection(variants []domain.Variant, cfg domain.DiscontinuedConfig, stats *Stats) []domain.Variant {
	if !cfg.Enabled || len(cfg.Keywords) == 0 {
		return variants
	}
	out := variants[:0]
	for _, v := range variants {
		matched := false
		statusText := v.Flags.StockInfoMessage
		if v.RawData != nil && cfg.StatusColumn != "" {
			statusText = v.RawData[cfg.StatusColumn]
		}
		up := strings.ToUpper(statusText)
		for _, kw := range cfg.Keywords {
			if strings.Contains(up, strings.ToUpper(kw)) {
				matched = true
				break
			}
		}
		if matched {
			v.Flags.Discontinued = true
			if cfg.SkipDiscontinued {
				stats.DiscontinuedFiltered++
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

// Rule 6: drop variants missing any configured required field.
func applyRequiredFields(variants []domain.Variant, columnMapping map[string]string, stats *Stats) []domain.Variant {
	required, ok := columnMapping["__requiredFields"]
	if !ok || required == "" {
		return variants
	}
	fields := strings.Split(required, ",")
	out := variants[:0]
	for _, v := range variants {
		missing := false
		for _, f := range fields {
			switch strings.TrimSpace(strings.ToLower(f)) {
			case "style":
				missing = missing || v.Style == ""
			case "color":
				missing = missing || v.Color == ""
			case "size":
				missing = missing || v.Size == ""
			case "price":
				missing = missing || v.Price == nil
			}
		}
		if missing {
			stats.RequiredFieldDropped++
			continue
		}
		out = append(out, v)
	}
	return out
}

// Rule 7: future-stock config — "date-only mode" treats a ship-date
// alone as future stock; "use future date as ship date" copies a
// future-date column value into ShipDate.
func applyFutureStockConfig(variants []domain.Variant, cfg domain.FutureStockConfig, stats *Stats) []domain.Variant {
	for i := range variants {
		if cfg.UseFutureDateAsShipDate && variants[i].RawData != nil && cfg.FutureDateColumn != "" {
			raw := variants[i].RawData[cfg.FutureDateColumn]
			if t, ok := parse.ParseDate(raw, false); ok {
				variants[i].ShipDate = &t
			}
		}
		if cfg.DateOnlyMode && variants[i].ShipDate != nil {
			if variants[i].ShipDate.After(time.Now()) {
				variants[i].Flags.HasFutureStock = true
				stats.FutureStockApplied++
			}
		}
	}
	return variants
}

// Rule 8: skipZeroPrice drops price=0 variants; optional multiplier.
func applyRegularPriceConfig(variants []domain.Variant, cfg domain.RegularPriceConfig, stats *Stats) []domain.Variant {
	out := variants[:0]
	for _, v := range variants {
		if cfg.SkipZeroPrice && v.Price != nil && *v.Price == 0 {
			stats.ZeroPriceDropped++
			continue
		}
		if cfg.Multiplier != 0 && cfg.Multiplier != 1 && v.Price != nil {
			p := *v.Price * cfg.Multiplier
			v.Price = &p
		}
		out = append(out, v)
	}
	return out
}

// Rule 9: clamp or drop out-of-range prices.
func applyPriceFloorCeiling(variants []domain.Variant, cfg domain.PriceFloorCeilingConfig, stats *Stats) []domain.Variant {
	if !cfg.Enabled {
		return variants
	}
	out := variants[:0]
	for _, v := range variants {
		if v.Price == nil {
			out = append(out, v)
			continue
		}
		p := *v.Price
		outOfRange := (cfg.Floor != nil && p < *cfg.Floor) || (cfg.Ceiling != nil && p > *cfg.Ceiling)
		if !outOfRange {
			out = append(out, v)
			continue
		}
		if cfg.DropOutOfRange {
			stats.PriceDropped++
			continue
		}
		if cfg.Floor != nil && p < *cfg.Floor {
			p = *cfg.Floor
		}
		if cfg.Ceiling != nil && p > *cfg.Ceiling {
			p = *cfg.Ceiling
		}
		v.Price = &p
		stats.PriceClamped++
		out = append(out, v)
	}
	return out
}

// Rule 10: if a per-row sale-price column has a value, compute
// finalPrice = salePrice x multiplier. Compare-at stamping is deferred to
// step 15 (C4.11 in the spec's numbering), where the sale-source
// marketplace-price lookup is available.
func applyColumnSalePricing(variants []domain.Variant, cfg domain.SalePriceConfig, stats *Stats) []domain.Variant {
	if cfg.ColumnSaleColumn == "" {
		return variants
	}
	multiplier := cfg.PriceMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	for i := range variants {
		if variants[i].RawData == nil {
			continue
		}
		raw, ok := variants[i].RawData[cfg.ColumnSaleColumn]
		if !ok || raw == "" {
			continue
		}
		salePrice, ok := parseFloatLoose(raw)
		if !ok {
			continue
		}
		final := salePrice * multiplier
		variants[i].Price = &final
		stats.SalePricingApplied++
	}
	return variants
}

func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// Rule 11: drop variants with stock below threshold unless
// preserve-zero-stock is set.
func applyMinimumStockThreshold(variants []domain.Variant, cfg domain.SizeLimitConfig, stats *Stats) []domain.Variant {
	if !cfg.FilterZeroStock {
		return variants
	}
	out := variants[:0]
	for _, v := range variants {
		if v.Stock == 0 && !v.Flags.PreserveZeroStock && !v.Flags.HasFutureStock {
			stats.MinStockDropped++
			continue
		}
		out = append(out, v)
	}
	return out
}

// RebuildSKU rebuilds a variant's SKU after style or color changes, per
// §9's "rebuild the SKU every time style or color changes" rule.
func RebuildSKU(v *domain.Variant) {
	v.SKU = sku.Build(v.Style, v.Color, v.Size)
}
