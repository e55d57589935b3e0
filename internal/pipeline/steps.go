package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/fenwickretail/invpipe/internal/clean"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/rules"
	"github.com/fenwickretail/invpipe/internal/sku"
)

// filterSkip implements step 5: drop variants flagged ShouldSkip, unless
// SkipUnlessContinueSell is also set and the variant still carries stock
// (the "continue selling" override).
func filterSkip(variants []domain.Variant) []domain.Variant {
	out := variants[:0:0]
	for _, v := range variants {
		if !v.Flags.ShouldSkip {
			out = append(out, v)
			continue
		}
		if v.Flags.SkipUnlessContinueSell && v.Stock > 0 {
			out = append(out, v)
		}
	}
	return out
}

// filterDiscontinuedZeroStock implements step 6: remove discontinued
// variants with zero stock, unless HasFutureStock is set.
func filterDiscontinuedZeroStock(variants []domain.Variant) []domain.Variant {
	out := variants[:0:0]
	for _, v := range variants {
		if v.Flags.Discontinued && v.Stock == 0 && !v.Flags.HasFutureStock {
			continue
		}
		out = append(out, v)
	}
	return out
}

// dedupeAndZeroPastShipDates implements step 7: dedupe by (style, color,
// size) keeping the highest-stock record (merging a missing ship-date from
// the loser), then zero out stock for any surviving variant whose
// ship-date + dateOffsetDays has already passed (§4.10 design note: this
// runs after step 6 so preserved-zero-stock future items aren't lost to a
// higher-stock duplicate lacking the date).
func dedupeAndZeroPastShipDates(variants []domain.Variant, dateOffsetDays int, today time.Time) []domain.Variant {
	type key struct{ style, color, size string }
	best := make(map[key]domain.Variant)
	order := make([]key, 0, len(variants))

	for _, v := range variants {
		k := key{strings.ToUpper(v.Style), strings.ToUpper(v.Color), strings.ToUpper(strings.TrimSpace(v.Size))}
		existing, ok := best[k]
		if !ok {
			best[k] = v
			order = append(order, k)
			continue
		}
		if v.Stock > existing.Stock {
			if existing.ShipDate != nil && v.ShipDate == nil {
				v.ShipDate = existing.ShipDate
			}
			best[k] = v
		} else if existing.ShipDate == nil && v.ShipDate != nil {
			existing.ShipDate = v.ShipDate
			best[k] = existing
		}
	}

	out := make([]domain.Variant, 0, len(order))
	for _, k := range order {
		v := best[k]
		if v.ShipDate != nil {
			cutoff := v.ShipDate.AddDate(0, 0, dateOffsetDays)
			if !cutoff.After(today) {
				v.Stock = 0
				v.Flags.HasFutureStock = false
			}
		}
		out = append(out, v)
	}
	return out
}

// applyPrefix implements step 8: compute the style prefix, rebuild the
// prefixed style, title-case color, and rebuild the SKU.
func applyPrefix(variants []domain.Variant, source domain.Source) []domain.Variant {
	out := make([]domain.Variant, len(variants))
	for i, v := range variants {
		prefix := clean.ResolvePrefix(v.Flags.Brand, v.Style, source)
		if prefix != "" {
			v.Style = strings.TrimSpace(prefix + " " + v.Style)
		}
		v.Color = sku.TitleCase(v.Color)
		rules.RebuildSKU(&v)
		out[i] = v
	}
	return out
}

// reapplyColorMappings implements step 11: the single authoritative place
// that consults the global color-mapping table and the LLM advisor
// (resolved open question #2 — step 9 only does deterministic, source-
// local normalization). Idempotent; catches mappings the rule engine
// changed in step 10.
func reapplyColorMappings(ctx context.Context, variants []domain.Variant, mappings map[string]string, source domain.Source, advisor clean.ColorAdvisor, reviewSink func(clean.ColorSuggestion)) []domain.Variant {
	out := make([]domain.Variant, len(variants))
	for i, v := range variants {
		v.Color = clean.ResolveColorFromSource(ctx, v.Color, mappings, advisor, source, reviewSink)
		rules.RebuildSKU(&v)
		out[i] = v
	}
	return out
}

// applySalePricing implements the pricing half of step 15: multiply every
// price by the configured multiplier for a sale source, except variants with
// a value in the sale-price column, which rule 10 has already priced.
func applySalePricing(variants []domain.Variant, cfg domain.SalePriceConfig) []domain.Variant {
	if !cfg.Enabled || cfg.PriceMultiplier == 0 {
		return variants
	}
	out := make([]domain.Variant, len(variants))
	for i, v := range variants {
		colSale := cfg.ColumnSaleColumn != "" && v.RawData[cfg.ColumnSaleColumn] != ""
		if v.Price != nil && !colSale {
			p := *v.Price * cfg.PriceMultiplier
			v.Price = &p
		}
		out[i] = v
	}
	return out
}

// skuMarketplaceLookup resolves compare-at cost per SKU, used by step 15
// when cfg.UseCompareAtPrice is set. Distinct from priceexpand's
// per-style MarketplacePriceLookup: step 15 looks up the specific SKU the
// shopper would see, not a representative style price.
type skuMarketplaceLookup func(sku string) (float64, bool)

// applyCompareAtCost writes each variant's looked-up marketplace price
// into Cost, used downstream as the storefront's "compare at" value.
func applyCompareAtCost(variants []domain.Variant, cfg domain.SalePriceConfig, lookup skuMarketplaceLookup) []domain.Variant {
	if !cfg.Enabled || !cfg.UseCompareAtPrice || lookup == nil {
		return variants
	}
	out := make([]domain.Variant, len(variants))
	for i, v := range variants {
		if price, ok := lookup(v.SKU); ok {
			v.Cost = &price
		}
		out[i] = v
	}
	return out
}
