// Package pipeline implements the Pipeline Orchestrator (C10): the fixed
// 20-step sequence every acquisition adapter funnels through, assembled
// from the component packages (parse, clean, rules, variantrules,
// priceexpand, discontinued, stockinfo, safety, validation) the way the
// teacher's internal/pipeline.Worker composes repository + service calls
// into one ProcessBatch loop.
package pipeline

import (
	"time"

	"github.com/fenwickretail/invpipe/internal/clean"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/safety"
	"github.com/fenwickretail/invpipe/internal/store"
	"github.com/fenwickretail/invpipe/internal/validation"
)

// Buffer is one raw acquired file, named for combine/multi-file logging.
type Buffer struct {
	Name string
	Data []byte
}

// RunInput is everything one orchestrator run needs beyond the source
// config itself.
type RunInput struct {
	Source domain.Source

	// Buffers drives the normal (non-combine) path: one or more raw
	// files to be consolidated, detected, and parsed (steps 1-4).
	Buffers []Buffer

	// PreConsolidated drives the combine path: items already staged,
	// prefixed, and cleaned. Steps 1-4 and 8 are skipped.
	PreConsolidated []domain.Variant
	IsCombine       bool

	// StagedFileIDs lists the StagedFile rows PreConsolidated was built
	// from, so step 20 can mark them imported (§4.10 step 20, §4.11
	// combine adapter).
	StagedFileIDs []string

	FileID string
}

// Result mirrors spec §6's pipeline result shape.
type Result struct {
	Success      bool
	ItemCount    int
	FileID       string
	Stats        domain.ImportStats
	Validation   *validation.Report
	Error        string
	SafetyBlock  *safety.Result
}

// Deps bundles every external seam the orchestrator reads or writes
// through. Every field may be nil: a nil store skips the reads and writes
// that go through it (a nil Marketplace means no price lookups), a nil
// Advisor means "no suggestion", and a nil Now uses time.Now.
type Deps struct {
	Variants     store.VariantStore
	Sources      store.SourceStore
	Stats        store.StatsStore
	Registry     store.RegistryStore
	Marketplace  store.MarketplaceStore
	StagedFiles  store.StagedFileStore
	Advisor      clean.ColorAdvisor
	ReviewSink   func(clean.ColorSuggestion)
	// Alert is invoked when a guard aborts the run before any write
	// (pre-import validation failure or safety block). Nil means "log
	// only"; production wires this to the operator notification channel.
	Alert        func(sourceID, message string)
	SafetyThresholdPct float64 // fallback when source.SafetyThreshold == 0
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
