package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/clean"
	"github.com/fenwickretail/invpipe/internal/discontinued"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/parse"
	"github.com/fenwickretail/invpipe/internal/pipelineerr"
	"github.com/fenwickretail/invpipe/internal/priceexpand"
	"github.com/fenwickretail/invpipe/internal/rules"
	"github.com/fenwickretail/invpipe/internal/safety"
	"github.com/fenwickretail/invpipe/internal/stockinfo"
	"github.com/fenwickretail/invpipe/internal/validation"
	"github.com/fenwickretail/invpipe/internal/variantrules"
)

// Run executes the fixed 20-step sequence (spec §4.10) against one
// source's acquired input. If input.IsCombine is set, steps 1-4 and 8 are
// skipped because items were already prefixed and cleaned during staging.
func Run(ctx context.Context, deps Deps, input RunInput) (Result, error) {
	source := input.Source
	now := deps.now()
	compiled := compilePatterns(source.ComplexStock)

	variants, headRows, learnedFormat, err := acquireVariants(input, source, compiled)
	if err != nil {
		return Result{Success: false, Error: err.Error()}, err
	}
	if learnedFormat != "" && deps.Sources != nil {
		if err := deps.Sources.UpdateLastDetectedFormat(ctx, source.ID, learnedFormat, 1.0); err != nil {
			log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to persist learned format")
		}
	}
	rowCount := len(variants)
	sourceCounts := checksumCountsOf(variants)

	if !input.IsCombine {
		previousRowCount := 0
		if deps.Stats != nil {
			if prev, err := deps.Stats.Previous(ctx, source.ID); err == nil && prev != nil {
				previousRowCount = prev.ItemCount
			}
		}
		pre := validation.PreImportStructural(source.Validation, rowCount, previousRowCount, len(input.Buffers) > 1)
		pre = append(pre, validation.ExpectedColumnsCheck(source.Validation, headRows)...)
		if failed := failedChecks(pre); len(failed) > 0 {
			verr := &pipelineerr.ValidationPreImportError{SourceID: source.ID, Detail: failed[0].Detail}
			dispatchAlert(deps, source.ID, verr.Error())
			return Result{Success: false, Error: verr.Error()}, verr
		}
	}

	// Step 5-6: skip-rule + discontinued-zero-stock filters.
	variants = filterSkip(variants)
	variants = filterDiscontinuedZeroStock(variants)

	// Step 7: dedupe + zero out past-due ship dates.
	variants = dedupeAndZeroPastShipDates(variants, source.StockInfo.DateOffsetDays, now)

	// Step 8: prefix + rebuild SKU + title-case color (skipped for combine).
	if !input.IsCombine {
		variants = applyPrefix(variants, source)
	}

	// Step 9: full cleaner pass. Per the resolved open question, the
	// global color-mapping table and the LLM advisor are NOT consulted
	// here; only step 11 does, so mappings and advisor are nil.
	variants, cleanStats := clean.Run(ctx, variants, source, nil, nil, deps.ReviewSink)

	// Step 10: rule engine.
	variants, ruleStats := rules.Apply(variants, source, compiled)

	// Step 11: second, idempotent pass of global color mappings, the
	// single place the LLM advisor and the global mapping table are
	// consulted.
	mappings, err := loadColorMappings(ctx, deps)
	if err != nil {
		log.Warn().Err(err).Str("source_id", source.ID).Msg("color mapping reload failed, step 11 skipped")
	}
	variants = reapplyColorMappings(ctx, variants, mappings, source, deps.Advisor, deps.ReviewSink)

	// Step 12: variant (size-expansion) rules.
	variants, vrStats := variantrules.Apply(variants, source.SizeLimit, source.VariantRules)

	// Step 13: price expander.
	styleLookup := marketplaceStyleLookup(ctx, deps, source.MarketplaceStoreID)
	variants, peStats := priceexpand.Apply(variants, source.PriceExpansion, source.SizeLimit, styleLookup)

	// Step 14: discontinued-styles cross-reference.
	var removedStyles []string
	if source.Role == domain.RoleRegular && source.LinkedSaleSourceID != "" && deps.Registry != nil {
		var dErr error
		variants, removedStyles, dErr = discontinued.FilterRegularSource(ctx, deps.Registry, source.LinkedSaleSourceID, variants)
		if dErr != nil {
			log.Warn().Err(dErr).Str("source_id", source.ID).Msg("discontinued cross-reference lookup failed")
		} else if len(removedStyles) > 0 && deps.Variants != nil {
			if err := deps.Variants.RemoveStylesForSource(ctx, source.ID, removedStyles); err != nil {
				log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to remove discontinued styles from store")
			}
		}
	}

	// Step 15: sale pricing multiplier + per-SKU compare-at cost.
	variants = applySalePricing(variants, source.SalePrice)
	skuLookup := marketplaceSKULookup(ctx, deps, source.MarketplaceStoreID)
	variants = applyCompareAtCost(variants, source.SalePrice, skuLookup)

	// Step 16: render stockInfo message.
	var legacy *stockinfo.LegacyMetafieldRule
	for i := range variants {
		variants[i].Flags.StockInfoMessage = stockinfo.Render(variants[i], source.StockInfo, legacy, now)
	}

	// Step 17: safety nets.
	existingCount := 0
	if deps.Variants != nil {
		existingCount, err = deps.Variants.ExistingCount(ctx, source.ID)
		if err != nil {
			return Result{Success: false, Error: err.Error()}, fmt.Errorf("read existing count: %w", err)
		}
	}
	threshold := source.SafetyThreshold
	if threshold == 0 {
		threshold = deps.SafetyThresholdPct
	}
	safetyResult := safety.Check(source.UpdateStrategy, existingCount, len(variants), threshold)
	if safetyResult.Blocked {
		berr := &pipelineerr.SafetyBlockError{
			SourceID: source.ID, Message: safetyResult.Message,
			ExistingCount: existingCount, NewCount: len(variants), DropPercent: safetyResult.DropPercent,
		}
		dispatchAlert(deps, source.ID, berr.Error())
		return Result{Success: false, Error: berr.Error(), SafetyBlock: &safetyResult}, berr
	}

	items := toInventoryItems(variants, source.ID, input.FileID)

	// Step 18: atomic write.
	if err := writeItems(ctx, deps, source, items); err != nil {
		werr := &pipelineerr.WriteError{SourceID: source.ID, Err: err}
		return Result{Success: false, Error: werr.Error()}, werr
	}

	// Step 19: write ImportStats.
	stats := buildStats(variants, source, now)
	if deps.Stats != nil {
		if err := deps.Stats.Save(ctx, source.ID, stats); err != nil {
			log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to persist import stats")
		}
	}

	// Post-import validation (returned, never blocks the already-committed write).
	report := runPostImportValidation(ctx, deps, source, variants, stats, sourceCounts)

	// Step 20: post-import bookkeeping.
	runPostImportHooks(ctx, deps, input, variants, now)

	logRunStats(source.ID, cleanStats, vrStats, peStats, ruleStats)

	return Result{
		Success:    true,
		ItemCount:  len(variants),
		FileID:     input.FileID,
		Stats:      stats,
		Validation: report,
	}, nil
}

// acquireVariants implements steps 1-4 and returns the canonical variant
// stream plus, when C12's learner decided the source's saved FormatType
// should change, the new format string to persist (empty otherwise).
func acquireVariants(input RunInput, source domain.Source, compiled []parse.CompiledComplexStockPattern) ([]domain.Variant, [][]string, string, error) {
	if input.IsCombine {
		return input.PreConsolidated, nil, "", nil
	}

	grid, fileName, err := consolidate(input.Buffers)
	if err != nil {
		return nil, nil, "", &pipelineerr.ParseError{SourceID: source.ID, FileName: fileName, Err: err}
	}

	cfg := buildParseConfig(source, fileName, compiled)
	rows, usedFormat, shouldLearn := parse.ResolveFormat(parse.Format(source.FormatType), grid, source.DisplayName, fileName, cfg)
	if len(rows) == 0 {
		return nil, nil, "", &pipelineerr.ParseError{SourceID: source.ID, FileName: fileName, Err: fmt.Errorf("no rows parsed")}
	}

	variants := rowsToVariants(rows)
	for i := range variants {
		variants[i].Style = clean.CleanStyle(variants[i].Style, source.Cleaning)
	}

	var learned string
	if shouldLearn {
		learned = string(usedFormat)
	}
	return variants, headRegion(grid), learned, nil
}

// headRegion snapshots the first rows of the grid for the
// expected-columns check, matching the 10-row window the parsers scan
// when locating a header row.
func headRegion(g parse.Grid) [][]string {
	limit := g.NumRows()
	if limit > 10 {
		limit = 10
	}
	return g.Rows[:limit]
}

// dispatchAlert notifies the operator channel about a guard-aborted run;
// the log line is the floor so a missing Alert hook never hides a block.
func dispatchAlert(deps Deps, sourceID, message string) {
	log.Error().Str("source_id", sourceID).Msg(message)
	if deps.Alert != nil {
		deps.Alert(sourceID, message)
	}
}

func failedChecks(checks []validation.CheckResult) []validation.CheckResult {
	var out []validation.CheckResult
	for _, c := range checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

func loadColorMappings(ctx context.Context, deps Deps) (map[string]string, error) {
	if deps.Registry == nil {
		return nil, nil
	}
	return deps.Registry.ColorMappings(ctx)
}

func marketplaceStyleLookup(ctx context.Context, deps Deps, storeID string) priceexpand.MarketplacePriceLookup {
	if deps.Marketplace == nil || storeID == "" {
		return nil
	}
	return func(style string) (float64, bool) {
		price, ok, err := deps.Marketplace.PriceForStyle(ctx, storeID, style)
		if err != nil {
			w := &pipelineerr.TransformWarning{Step: "price-expand", Detail: fmt.Sprintf("marketplace style lookup for %s: %v", style, err)}
			log.Warn().Msg(w.Error())
			return 0, false
		}
		return price, ok
	}
}

func marketplaceSKULookup(ctx context.Context, deps Deps, storeID string) skuMarketplaceLookup {
	if deps.Marketplace == nil || storeID == "" {
		return nil
	}
	return func(sku string) (float64, bool) {
		price, ok, err := deps.Marketplace.PriceForSKU(ctx, storeID, sku)
		if err != nil {
			log.Warn().Err(err).Str("sku", sku).Msg("marketplace sku price lookup failed")
			return 0, false
		}
		return price, ok
	}
}

func toInventoryItems(variants []domain.Variant, sourceID, fileID string) []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(variants))
	for i, v := range variants {
		out[i] = domain.InventoryItem{
			Variant:       v,
			SourceID:      sourceID,
			FileID:        fileID,
			SaleOwnsStyle: v.Flags.SaleOwnsStyle,
		}
	}
	return out
}

func writeItems(ctx context.Context, deps Deps, source domain.Source, items []domain.InventoryItem) error {
	if deps.Variants == nil {
		return nil
	}
	if source.UpdateStrategy == domain.StrategyFullSync {
		return deps.Variants.FullSyncReplace(ctx, source.ID, items)
	}
	return deps.Variants.Upsert(ctx, source.ID, items)
}

func buildStats(variants []domain.Variant, source domain.Source, now time.Time) domain.ImportStats {
	stats := domain.ImportStats{
		Timestamp:  now,
		SourceKind: source.Kind,
		ItemCount:  len(variants),
		Prefix:     source.DisplayName,
	}

	styles := make(map[string]bool)
	colors := make(map[string]bool)
	summaries := make(map[string]*domain.StyleSummary)

	for _, v := range variants {
		stats.TotalStock += v.Stock
		styles[v.Style] = true
		colors[v.Color] = true
		if v.Price != nil {
			stats.ItemsWithPriceCount++
		}
		if v.ShipDate != nil {
			stats.ItemsWithShipDateCount++
		}
		if v.Flags.Discontinued {
			stats.DiscontinuedCount++
		}
		if v.Flags.IsExpandedSize {
			stats.ExpandedSizeCount++
		}
		if v.Flags.HasFutureStock {
			stats.FutureStockCount++
		}

		sum, ok := summaries[v.Style]
		if !ok {
			sum = &domain.StyleSummary{Style: v.Style}
			summaries[v.Style] = sum
		}
		sum.VariantCount++
		sum.TotalStock += v.Stock
		sum.Discontinued = sum.Discontinued || v.Flags.Discontinued
		sum.HasFutureStock = sum.HasFutureStock || v.Flags.HasFutureStock
		sum.Colors = appendUnique(sum.Colors, v.Color)
		sum.Sizes = appendUnique(sum.Sizes, v.Size)
		if len(sum.SKUs) < 50 {
			sum.SKUs = append(sum.SKUs, v.SKU)
		}
	}

	stats.UniqueStyleCount = len(styles)
	stats.UniqueColorCount = len(colors)

	for style := range styles {
		if len(stats.StyleList) >= 2000 {
			break
		}
		stats.StyleList = append(stats.StyleList, style)
	}
	for color := range colors {
		if len(stats.ColorList) >= 500 {
			break
		}
		stats.ColorList = append(stats.ColorList, color)
	}
	for _, sum := range summaries {
		stats.StyleSummaries = append(stats.StyleSummaries, *sum)
	}

	return stats
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

// checksumCountsOf snapshots the counts family 2 compares, taken from
// the freshly parsed stream before any transform drops rows.
func checksumCountsOf(variants []domain.Variant) validation.ChecksumCounts {
	styles := make(map[string]bool)
	colors := make(map[string]bool)
	counts := validation.ChecksumCounts{ItemCount: len(variants)}
	for _, v := range variants {
		counts.TotalStock += v.Stock
		styles[strings.ToUpper(v.Style)] = true
		colors[strings.ToUpper(v.Color)] = true
	}
	counts.UniqueStyleCount = len(styles)
	counts.UniqueColorCount = len(colors)
	return counts
}

func runPostImportValidation(ctx context.Context, deps Deps, source domain.Source, variants []domain.Variant, stats domain.ImportStats, sourceCounts validation.ChecksumCounts) *validation.Report {
	var checks []validation.CheckResult

	withStock, withPrice, withShipDate := 0, 0, 0
	for _, v := range variants {
		if v.Stock > 0 {
			withStock++
		}
		if v.Price != nil {
			withPrice++
		}
		if v.ShipDate != nil {
			withShipDate++
		}
	}
	if source.Validation.ChecksumEnabled {
		imported := checksumCountsOf(variants)
		checks = append(checks, validation.Checksum(source.Validation, sourceCounts, imported)...)
	}
	checks = append(checks, validation.Distribution(source.Validation, len(variants), withStock, withPrice, withShipDate)...)
	checks = append(checks, validation.Count(source.Validation, stats)...)
	checks = append(checks, validation.SpotChecks(source.Validation.SpotChecks, variants)...)

	if deps.Stats != nil {
		if previous, err := deps.Stats.Previous(ctx, source.ID); err == nil {
			checks = append(checks, validation.Delta(source.Validation, previous, stats)...)
		}
	}

	report := validation.Report{Checks: checks}
	return &report
}

func runPostImportHooks(ctx context.Context, deps Deps, input RunInput, variants []domain.Variant, now time.Time) {
	source := input.Source
	if source.Role == domain.RoleSale && deps.Registry != nil {
		if err := discontinued.RegisterSaleStyles(ctx, deps.Registry, source.ID, variants); err != nil {
			log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to register sale styles in discontinued registry")
		}
	}

	if deps.Sources != nil {
		if err := deps.Sources.UpdateLastSyncedAt(ctx, source.ID, now); err != nil {
			log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to update last-sync timestamp")
		}
	}

	if input.IsCombine && deps.StagedFiles != nil {
		for _, id := range input.StagedFileIDs {
			if err := deps.StagedFiles.UpdateStatus(ctx, id, domain.StagedFileImported); err != nil {
				log.Warn().Err(err).Str("staged_file_id", id).Msg("failed to mark staged file imported")
			}
		}
	}
}

func logRunStats(sourceID string, cs clean.Stats, vr variantrules.Stats, pe priceexpand.Stats, rs rules.Stats) {
	log.Debug().
		Str("source_id", sourceID).
		Int("no_size_dropped", cs.NoSizeDropped).
		Int("deduped", cs.Deduped).
		Int("size_limit_filtered", vr.SizeLimitFiltered).
		Int("sizes_expanded", vr.SizesExpanded).
		Int("styles_price_expanded", pe.StylesExpanded).
		Int("complex_stock_matched", rs.ComplexStockMatched).
		Int("discontinued_filtered", rs.DiscontinuedFiltered).
		Msg("pipeline transform stats")
}
