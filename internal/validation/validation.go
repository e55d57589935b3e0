// Package validation implements the Validation Harness (C13): five
// families of togglable pre/post-import checks plus spot checks (§4.13).
package validation

import (
	"fmt"
	"strings"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// CheckResult is one named check's pass/fail outcome.
type CheckResult struct {
	Name   string
	Passed bool
	Detail string
}

// Report aggregates every check run for one import, with accuracy =
// passedChecks / totalChecks (§4.13).
type Report struct {
	Checks []CheckResult
}

// Accuracy returns passed/total, or 1.0 when no checks ran.
func (r Report) Accuracy() float64 {
	if len(r.Checks) == 0 {
		return 1.0
	}
	passed := 0
	for _, c := range r.Checks {
		if c.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(r.Checks))
}

// Passed reports whether every check in the report passed.
func (r Report) Passed() bool {
	return r.Accuracy() == 1.0
}

// PreImportStructural runs family 1: file readable, expected columns
// present, row count within bounds, row-count drop within tolerance.
// Skipped for multi-file mode per §4.13.
func PreImportStructural(cfg domain.ValidationConfig, rowCount int, previousRowCount int, isMultiFile bool) []CheckResult {
	var results []CheckResult
	if isMultiFile {
		return results
	}
	if cfg.MinRowCount > 0 {
		results = append(results, CheckResult{
			Name:   "min_row_count",
			Passed: rowCount >= cfg.MinRowCount,
			Detail: fmt.Sprintf("rowCount=%d min=%d", rowCount, cfg.MinRowCount),
		})
	}
	if cfg.MaxRowCount > 0 {
		results = append(results, CheckResult{
			Name:   "max_row_count",
			Passed: rowCount <= cfg.MaxRowCount,
			Detail: fmt.Sprintf("rowCount=%d max=%d", rowCount, cfg.MaxRowCount),
		})
	}
	if cfg.RowCountTolerancePct > 0 && previousRowCount > 0 {
		dropPct := float64(previousRowCount-rowCount) / float64(previousRowCount) * 100
		results = append(results, CheckResult{
			Name:   "row_count_drop_tolerance",
			Passed: dropPct <= cfg.RowCountTolerancePct,
			Detail: fmt.Sprintf("dropPct=%.2f tolerance=%.2f", dropPct, cfg.RowCountTolerancePct),
		})
	}
	return results
}

// ExpectedColumnsCheck verifies every configured expected column appears
// (case-insensitive substring) somewhere in the file's header region —
// the same 10-row window the parsers scan for a header row. Part of
// family 1 alongside the row-count guards.
func ExpectedColumnsCheck(cfg domain.ValidationConfig, headRows [][]string) []CheckResult {
	if len(cfg.ExpectedColumns) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	for _, row := range headRows {
		for _, cell := range row {
			seen[strings.ToUpper(strings.TrimSpace(cell))] = true
		}
	}
	var results []CheckResult
	for _, want := range cfg.ExpectedColumns {
		target := strings.ToUpper(strings.TrimSpace(want))
		found := seen[target]
		if !found {
			for cell := range seen {
				if strings.Contains(cell, target) {
					found = true
					break
				}
			}
		}
		results = append(results, CheckResult{
			Name:   "expected_column:" + want,
			Passed: found,
			Detail: fmt.Sprintf("column %q present=%v", want, found),
		})
	}
	return results
}

// ChecksumCounts holds the four counts family 2 compares between source
// file and imported records.
type ChecksumCounts struct {
	ItemCount        int
	TotalStock       int
	UniqueStyleCount int
	UniqueColorCount int
}

// Checksum runs family 2: source-file counts vs imported counts, within
// a configured tolerance percent (0 means exact match).
func Checksum(cfg domain.ValidationConfig, source, imported ChecksumCounts) []CheckResult {
	tol := cfg.ChecksumTolerancePct
	return []CheckResult{
		checksumField("item_count", source.ItemCount, imported.ItemCount, tol),
		checksumField("total_stock", source.TotalStock, imported.TotalStock, tol),
		checksumField("unique_style_count", source.UniqueStyleCount, imported.UniqueStyleCount, tol),
		checksumField("unique_color_count", source.UniqueColorCount, imported.UniqueColorCount, tol),
	}
}

func checksumField(name string, expected, actual int, tolerancePct float64) CheckResult {
	if expected == 0 {
		return CheckResult{Name: name, Passed: actual == 0, Detail: fmt.Sprintf("expected=0 actual=%d", actual)}
	}
	diffPct := absFloat(float64(expected-actual)) / float64(expected) * 100
	return CheckResult{
		Name:   name,
		Passed: diffPct <= tolerancePct,
		Detail: fmt.Sprintf("expected=%d actual=%d diffPct=%.2f tolerance=%.2f", expected, actual, diffPct, tolerancePct),
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Distribution runs family 3: percent bounds on stock>0 / has-price /
// has-ship-date across the imported set.
func Distribution(cfg domain.ValidationConfig, total, withStock, withPrice, withShipDate int) []CheckResult {
	if total == 0 {
		return nil
	}
	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }
	return []CheckResult{
		{Name: "distribution_stock_pct", Passed: pct(withStock) >= cfg.DistributionMinStockPct, Detail: fmt.Sprintf("%.2f%%", pct(withStock))},
		{Name: "distribution_price_pct", Passed: pct(withPrice) >= cfg.DistributionMinPricePct, Detail: fmt.Sprintf("%.2f%%", pct(withPrice))},
		{Name: "distribution_shipdate_pct", Passed: pct(withShipDate) >= cfg.DistributionMinShipDatePct, Detail: fmt.Sprintf("%.2f%%", pct(withShipDate))},
	}
}

// Delta runs family 4: historical comparison against the previous run's
// ImportStats.
func Delta(cfg domain.ValidationConfig, previous *domain.ImportStats, current domain.ImportStats) []CheckResult {
	if previous == nil {
		return nil
	}
	dropPct := func(prev, cur int) float64 {
		if prev == 0 {
			return 0
		}
		return float64(prev-cur) / float64(prev) * 100
	}
	return []CheckResult{
		{Name: "delta_item_count", Passed: dropPct(previous.ItemCount, current.ItemCount) <= cfg.DeltaItemCountDropPct},
		{Name: "delta_total_stock", Passed: dropPct(previous.TotalStock, current.TotalStock) <= cfg.DeltaTotalStockDropPct},
		{Name: "delta_unique_style", Passed: dropPct(previous.UniqueStyleCount, current.UniqueStyleCount) <= cfg.DeltaUniqueStyleDropPct},
	}
}

// Count runs family 5: absolute bounds on items/styles/future-stock/
// discontinued counts.
func Count(cfg domain.ValidationConfig, stats domain.ImportStats) []CheckResult {
	var results []CheckResult
	if cfg.MinItems > 0 {
		results = append(results, CheckResult{Name: "min_items", Passed: stats.ItemCount >= cfg.MinItems})
	}
	if cfg.MaxItems > 0 {
		results = append(results, CheckResult{Name: "max_items", Passed: stats.ItemCount <= cfg.MaxItems})
	}
	if cfg.MinFutureStockItems > 0 {
		results = append(results, CheckResult{Name: "min_future_stock_items", Passed: stats.FutureStockCount >= cfg.MinFutureStockItems})
	}
	if cfg.MaxDiscontinuedItems > 0 {
		results = append(results, CheckResult{Name: "max_discontinued_items", Passed: stats.DiscontinuedCount <= cfg.MaxDiscontinuedItems})
	}
	return results
}

// SpotChecks runs family 6 against the final in-memory variant set.
func SpotChecks(checks []domain.SpotCheck, variants []domain.Variant) []CheckResult {
	var results []CheckResult
	for _, check := range checks {
		results = append(results, CheckResult{
			Name:   fmt.Sprintf("spot:%s/%s/%s/%s", check.Style, check.Color, check.Size, check.Condition),
			Passed: evalSpotCheck(check, variants),
		})
	}
	return results
}

func evalSpotCheck(check domain.SpotCheck, variants []domain.Variant) bool {
	for _, v := range variants {
		if v.Style != check.Style {
			continue
		}
		if check.Color != "" && v.Color != check.Color {
			continue
		}
		if check.Size != "" && v.Size != check.Size {
			continue
		}
		switch check.Condition {
		case domain.SpotExists:
			return true
		case domain.SpotStockPositive:
			if v.Stock > 0 {
				return true
			}
		case domain.SpotHasFutureDate:
			if v.Flags.HasFutureStock {
				return true
			}
		case domain.SpotIsDiscontinued:
			if v.Flags.Discontinued {
				return true
			}
		case domain.SpotHasPrice:
			if v.Price != nil {
				return true
			}
		}
	}
	return false
}
