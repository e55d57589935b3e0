// Package stockinfo implements the StockInfo Renderer (C8): a per-variant
// display message chosen by fixed priority (§4.8, P10).
package stockinfo

import (
	"strings"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/parse"
)

// LegacyMetafieldRule is the fallback rule source when a source has no
// stockInfoConfig of its own (§4.8 "Source of the rule").
type LegacyMetafieldRule struct {
	Active bool
	domain.StockInfoConfig
}

// Render produces the display message for one variant using the
// four-case priority from §4.8. today is injected so the function stays
// deterministic and testable; the orchestrator passes its run clock.
func Render(v domain.Variant, cfg domain.StockInfoConfig, legacy *LegacyMetafieldRule, today time.Time) string {
	effective := cfg
	if isZeroConfig(cfg) && legacy != nil && legacy.Active {
		effective = legacy.StockInfoConfig
	}
	if isZeroConfig(effective) {
		return ""
	}

	if v.Flags.IsExpandedSize && effective.SizeExpansionMessage != "" {
		return effective.SizeExpansionMessage
	}

	if v.Stock > effective.StockThreshold {
		if effective.InStockMessage != "" {
			return effective.InStockMessage
		}
	}

	if v.ShipDate != nil && effective.FutureDateMessage != "" {
		offsetDate := v.ShipDate.AddDate(0, 0, effective.DateOffsetDays)
		if offsetDate.After(today) {
			return strings.ReplaceAll(effective.FutureDateMessage, "{date}", parse.FormatDisplay(*v.ShipDate))
		}
	}

	return strings.ReplaceAll(effective.OutOfStockMessage, "{date}", "")
}

func isZeroConfig(cfg domain.StockInfoConfig) bool {
	return cfg.InStockMessage == "" && cfg.OutOfStockMessage == "" && cfg.FutureDateMessage == "" && cfg.SizeExpansionMessage == ""
}
