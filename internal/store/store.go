// Package store declares the persistence seams the pipeline orchestrator
// (internal/pipeline) writes through at steps 18-20, the way the teacher's
// internal/repository declares interfaces consumed by internal/service
// rather than importing postgres directly.
package store

import (
	"context"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// VariantStore is the step-18 write seam. A full_sync source replaces its
// entire style set inside one transaction; an upsert source merges rows
// keyed by SKU and leaves everything else untouched.
type VariantStore interface {
	ExistingCount(ctx context.Context, sourceID string) (int, error)
	FullSyncReplace(ctx context.Context, sourceID string, items []domain.InventoryItem) error
	Upsert(ctx context.Context, sourceID string, items []domain.InventoryItem) error
	// RemoveStylesForSource deletes previously persisted rows whose
	// normalized style is in styles, used by step 14 when a style that
	// used to appear in a regular source's run has dropped out because
	// its linked sale source marked it discontinued.
	RemoveStylesForSource(ctx context.Context, sourceID string, styles []string) error
}

// SourceStore backs C14's format-learner write-back (C12) and the
// cross-reference lookups C7/C14 need between a regular source and the
// sale source it links to.
type SourceStore interface {
	Get(ctx context.Context, sourceID string) (domain.Source, error)
	List(ctx context.Context) ([]domain.Source, error)
	Save(ctx context.Context, src domain.Source) error
	UpdateLastDetectedFormat(ctx context.Context, sourceID string, format string, confidence float64) error
	UpdateLastSyncedAt(ctx context.Context, sourceID string, at time.Time) error
}

// StatsStore persists one domain.ImportStats row per run and answers the
// "previous run" lookup step 19's delta-validation check needs.
type StatsStore interface {
	Save(ctx context.Context, sourceID string, stats domain.ImportStats) error
	Previous(ctx context.Context, sourceID string) (*domain.ImportStats, error)
	History(ctx context.Context, sourceID string, limit int) ([]domain.ImportStats, error)
}

// RegistryStore backs internal/discontinued.Registry and also answers the
// global bad-color -> good-color table reads internal/cache fronts.
type RegistryStore interface {
	UpsertActive(ctx context.Context, saleSourceID string, normalizedStyles []string) error
	DeactivateMissing(ctx context.Context, saleSourceID string, normalizedStyles []string) error
	ActiveStyles(ctx context.Context, saleSourceID string) (map[string]bool, error)
	ColorMappings(ctx context.Context) (map[string]string, error)
	SuggestColorMapping(ctx context.Context, bad, good string, confidence float64) error
}

// StagedFileStore backs the multi-file combine flow (C11's combine
// adapter, C2's acquisition staging), tracking files parked for manual or
// scheduled combination before a run.
type StagedFileStore interface {
	Create(ctx context.Context, f domain.StagedFile) (string, error)
	Get(ctx context.Context, id string) (domain.StagedFile, error)
	ListBySource(ctx context.Context, sourceID string, status domain.StagedFileStatus) ([]domain.StagedFile, error)
	UpdateStatus(ctx context.Context, id string, status domain.StagedFileStatus) error
	FindByContentHash(ctx context.Context, sourceID, hash string) (*domain.StagedFile, error)
}

// MarketplaceStore backs C6's per-style price-expansion lookup and step
// 15's per-SKU compare-at lookup.
type MarketplaceStore interface {
	PriceForStyle(ctx context.Context, storeID, style string) (float64, bool, error)
	PriceForSKU(ctx context.Context, storeID, sku string) (float64, bool, error)
}

// BlobStore is the archival seam for raw acquired buffers (staged or
// already-run), fronting internal/storage's minio-backed implementation.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
