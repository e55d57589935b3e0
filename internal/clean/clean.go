package clean

import (
	"context"
	"strings"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/sku"
)

// Stats accumulates counts describing what this pass changed, in the
// style of the rule engine's own stats block (§4.4).
type Stats struct {
	NoSizeDropped  int
	Deduped        int
	ColorsMapped   int
	ColorsSuggested int
}

// Run applies the full Cleaner pass (§4.3): normalize style, mandate
// size, normalize/map color, dedupe by (style,color,size) keeping highest
// stock, and rebuild SKUs. Callers that already title-cased color/rebuilt
// SKU in step 8 of the orchestrator may re-run this at step 9 idempotently.
func Run(ctx context.Context, variants []domain.Variant, source domain.Source, mappings map[string]string, advisor ColorAdvisor, reviewSink func(ColorSuggestion)) ([]domain.Variant, Stats) {
	var stats Stats
	var cleaned []domain.Variant

	for _, v := range variants {
		v.Style = CleanStyle(v.Style, source.Cleaning)
		v.Color = ResolveColorFromSource(ctx, v.Color, mappings, advisor, source, func(s ColorSuggestion) {
			stats.ColorsSuggested++
			if reviewSink != nil {
				reviewSink(s)
			}
		})

		if strings.TrimSpace(v.Size) == "" {
			stats.NoSizeDropped++
			continue
		}

		v.SKU = sku.Build(v.Style, v.Color, v.Size)
		cleaned = append(cleaned, v)
	}

	deduped, dedupeCount := dedupe(cleaned)
	stats.Deduped = dedupeCount
	return deduped, stats
}

type dedupeKey struct {
	style, color, size string
}

// dedupe groups by (upper-case style, upper-case color, normalized size)
// and keeps the highest-stock record, merging a ship-date from a sibling
// only if the winner has none (§4.3).
func dedupe(variants []domain.Variant) ([]domain.Variant, int) {
	best := make(map[dedupeKey]domain.Variant)
	order := make([]dedupeKey, 0, len(variants))
	dropped := 0

	for _, v := range variants {
		key := dedupeKey{
			style: strings.ToUpper(v.Style),
			color: strings.ToUpper(v.Color),
			size:  strings.ToUpper(strings.TrimSpace(v.Size)),
		}
		existing, ok := best[key]
		if !ok {
			best[key] = v
			order = append(order, key)
			continue
		}
		dropped++
		if v.Stock > existing.Stock {
			if existing.ShipDate != nil && v.ShipDate == nil {
				v.ShipDate = existing.ShipDate
			}
			best[key] = v
		} else if existing.ShipDate == nil && v.ShipDate != nil {
			existing.ShipDate = v.ShipDate
			best[key] = existing
		}
	}

	out := make([]domain.Variant, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out, dropped
}
