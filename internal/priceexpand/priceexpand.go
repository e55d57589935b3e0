// Package priceexpand implements the Price Expander (C6): tiered size
// expansion driven by cached marketplace prices.
package priceexpand

import (
	"regexp"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/sizeorder"
)

// MarketplacePriceLookup resolves the highest cached marketplace price
// across colors for a style. Implementations back onto the read-through
// marketplace price cache (§5 "Shared-resource policy").
type MarketplacePriceLookup func(style string) (float64, bool)

// Stats counts expansion outcomes.
type Stats struct {
	StylesExpanded int
	SizesAdded     int
}

// Apply runs C6 when enabled: for each variant, resolves its style's
// cached marketplace price, selects the first matching tier, and adds
// expandDown smaller / expandUp larger sizes in the fixed ordering,
// subject to the size-limit filter. Tiers with no cached price fall back
// to the config's default expand amounts (§4.6).
func Apply(variants []domain.Variant, cfg domain.PriceExpansionConfig, sizeLimit domain.SizeLimitConfig, lookup MarketplacePriceLookup) ([]domain.Variant, Stats) {
	var stats Stats
	if !cfg.Enabled {
		return variants, stats
	}

	out := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)

		down, up := resolveExpansion(v.Style, cfg, lookup)
		if down == 0 && up == 0 {
			continue
		}
		neighbors := sizeorder.SequenceAround(v.Size, down, up)
		if len(neighbors) == 0 {
			continue
		}
		stats.StylesExpanded++
		bounds := sizeLimitBoundsFor(v.Style, sizeLimit)
		for _, size := range neighbors {
			if sizeLimit.Enabled && !sizeWithinBounds(size, bounds) {
				continue
			}
			expanded := v
			expanded.Size = size
			expanded.Flags.IsExpandedSize = true
			expanded.Flags.ExpandedFrom = v.Size
			out = append(out, expanded)
			stats.SizesAdded++
		}
	}
	return out, stats
}

func resolveExpansion(style string, cfg domain.PriceExpansionConfig, lookup MarketplacePriceLookup) (down, up int) {
	if lookup == nil {
		return cfg.DefaultExpandDown, cfg.DefaultExpandUp
	}
	price, ok := lookup(style)
	if !ok {
		return cfg.DefaultExpandDown, cfg.DefaultExpandUp
	}
	for _, tier := range cfg.Tiers {
		if price < tier.MinPrice {
			continue
		}
		if tier.MaxPrice != nil && price > *tier.MaxPrice {
			continue
		}
		return tier.ExpandDown, tier.ExpandUp
	}
	return cfg.DefaultExpandDown, cfg.DefaultExpandUp
}

func sizeLimitBoundsFor(style string, cfg domain.SizeLimitConfig) domain.SizeBounds {
	for _, override := range cfg.PrefixOverrides {
		if matchPrefixPattern(override.Pattern, style) {
			return override.Bounds
		}
	}
	return cfg.Bounds
}

func matchPrefixPattern(pattern, style string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(style)
}

func sizeWithinBounds(size string, bounds domain.SizeBounds) bool {
	if sizeorder.IsNumeric(size) {
		val, ok := sizeorder.NumericValue(size)
		if !ok {
			return true
		}
		if bounds.MinNumeric != nil && val < *bounds.MinNumeric {
			return false
		}
		if bounds.MaxNumeric != nil && val > *bounds.MaxNumeric {
			return false
		}
		return true
	}
	return true
}
