// Package variantrules implements C5: the size-limit filter (with
// per-prefix overrides) and size expansion from per-source variant rules.
package variantrules

import (
	"regexp"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/sizeorder"
)

// Stats counts filter/expansion outcomes.
type Stats struct {
	SizeLimitFiltered int
	ZeroStockFiltered int
	SizesExpanded     int
}

// Apply runs the size-limit filter and then size expansion, in that
// order, per §4.5.
func Apply(variants []domain.Variant, cfg domain.SizeLimitConfig, rules []domain.VariantRule) ([]domain.Variant, Stats) {
	var stats Stats

	out := filterBySizeLimit(variants, cfg, &stats)
	out = filterZeroStock(out, cfg, &stats)
	out = expandSizes(out, rules, cfg, &stats)

	return out, stats
}

// effectiveBounds resolves §4.5's prefix-override precedence: the first
// matching prefix-override pattern against the (already-prefixed) style
// supplies bounds; otherwise the source-wide bounds apply.
func effectiveBounds(style string, cfg domain.SizeLimitConfig) domain.SizeBounds {
	for _, override := range cfg.PrefixOverrides {
		re, err := regexp.Compile(override.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(style) {
			return override.Bounds
		}
	}
	return cfg.Bounds
}

func withinBounds(size string, bounds domain.SizeBounds) bool {
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
	if sizeorder.IsLetter(size) {
		if bounds.MinLetter != "" && sizeorder.CompareLetter(size, bounds.MinLetter) < 0 {
			return false
		}
		if bounds.MaxLetter != "" && sizeorder.CompareLetter(size, bounds.MaxLetter) > 0 {
			return false
		}
		return true
	}
	return true
}

func filterBySizeLimit(variants []domain.Variant, cfg domain.SizeLimitConfig, stats *Stats) []domain.Variant {
	if !cfg.Enabled {
		return variants
	}
	out := variants[:0]
	for _, v := range variants {
		bounds := effectiveBounds(v.Style, cfg)
		if !withinBounds(v.Size, bounds) {
			stats.SizeLimitFiltered++
			continue
		}
		out = append(out, v)
	}
	return out
}

func filterZeroStock(variants []domain.Variant, cfg domain.SizeLimitConfig, stats *Stats) []domain.Variant {
	if !cfg.FilterZeroStock {
		return variants
	}
	out := variants[:0]
	for _, v := range variants {
		if v.Stock == 0 && !v.Flags.HasFutureStock && !v.Flags.PreserveZeroStock && v.ShipDate == nil {
			stats.ZeroStockFiltered++
			continue
		}
		out = append(out, v)
	}
	return out
}

// expandSizes applies user-defined size->[]size expansion rules.
// Expanded variants inherit stock/ship-date/flags from the source
// variant, are tagged IsExpandedSize with ExpandedFrom, and are filtered
// through the size-limit bounds using the prefixed style (§4.5).
func expandSizes(variants []domain.Variant, rules []domain.VariantRule, cfg domain.SizeLimitConfig, stats *Stats) []domain.Variant {
	if len(rules) == 0 {
		return variants
	}
	ruleMap := make(map[string][]string, len(rules))
	for _, r := range rules {
		ruleMap[r.FromSize] = r.ToSizes
	}

	out := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
		targets, ok := ruleMap[v.Size]
		if !ok {
			continue
		}
		bounds := effectiveBounds(v.Style, cfg)
		for _, size := range targets {
			if cfg.Enabled && !withinBounds(size, bounds) {
				continue
			}
			expanded := v
			expanded.Size = size
			expanded.Flags.IsExpandedSize = true
			expanded.Flags.ExpandedFrom = v.Size
			out = append(out, expanded)
			stats.SizesExpanded++
		}
	}
	return out
}
