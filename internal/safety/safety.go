// Package safety implements the Safety Nets (C9): post-parse/pre-write
// guards against corruption-induced data wipes (§4.9).
package safety

import "github.com/fenwickretail/invpipe/internal/domain"

// Result is the structured safety outcome returned by Check. The store is
// never mutated when Blocked is true (P8).
type Result struct {
	Blocked     bool
	Message     string
	DropPercent float64
}

// DefaultThresholdPct is used by callers that want "50% unless the
// source explicitly configures something else"; Source.SafetyThreshold's
// zero value means disabled outright, so this constant is only a
// convenience for source-creation defaults, never applied inside Check
// itself (§4.9: "default 50%, 0 disables" is a source-config authoring
// default, not a runtime fallback).
const DefaultThresholdPct = 50.0

// Check runs the full_sync safety cascade from §4.9:
//  1. zero-new-with-existing block
//  2. drop-percent-over-threshold block (skipped when safetyThresholdPct is 0)
//  3. unconditional >100-existing/<10%-new guard
//
// For upsert strategy there is no atomic-replace risk, so Check always
// passes (the per-key idempotent write has no analogous "wipe" failure
// mode).
func Check(strategy domain.UpdateStrategy, existingCount, newCount int, safetyThresholdPct float64) Result {
	if strategy != domain.StrategyFullSync {
		return Result{}
	}

	if newCount == 0 && existingCount >= 1 {
		return Result{Blocked: true, Message: "import would write zero items while existing inventory is non-empty"}
	}

	var dropPct float64
	if existingCount > 0 {
		dropPct = float64(existingCount-newCount) / float64(existingCount) * 100
	}

	if safetyThresholdPct != 0 && dropPct > safetyThresholdPct {
		return Result{Blocked: true, Message: "drop percent exceeds configured safety threshold", DropPercent: dropPct}
	}

	if existingCount > 100 && newCount < existingCount/10 {
		return Result{Blocked: true, Message: "new item count is below 10% of existing inventory", DropPercent: dropPct}
	}

	return Result{DropPercent: dropPct}
}
