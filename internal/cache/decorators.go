package cache

import (
	"context"

	"github.com/fenwickretail/invpipe/internal/store"
)

// CachedRegistryStore fronts a store.RegistryStore with Caches's
// read-through color-mapping and active-style lookups, the same way the
// teacher's stock-health service layers a cache in front of its
// repository rather than making callers cache-aware themselves.
type CachedRegistryStore struct {
	store.RegistryStore
	caches *Caches
}

// NewCachedRegistryStore wraps repo; caches may be nil (or disabled),
// in which case every call passes straight through to repo.
func NewCachedRegistryStore(repo store.RegistryStore, caches *Caches) *CachedRegistryStore {
	return &CachedRegistryStore{RegistryStore: repo, caches: caches}
}

func (c *CachedRegistryStore) ActiveStyles(ctx context.Context, saleSourceID string) (map[string]bool, error) {
	if c.caches == nil {
		return c.RegistryStore.ActiveStyles(ctx, saleSourceID)
	}
	return c.caches.ActiveStyles(ctx, saleSourceID, func(ctx context.Context) (map[string]bool, error) {
		return c.RegistryStore.ActiveStyles(ctx, saleSourceID)
	})
}

func (c *CachedRegistryStore) ColorMappings(ctx context.Context) (map[string]string, error) {
	if c.caches == nil {
		return c.RegistryStore.ColorMappings(ctx)
	}
	return c.caches.ColorMapping(ctx, "global", func(ctx context.Context) (map[string]string, error) {
		return c.RegistryStore.ColorMappings(ctx)
	})
}

func (c *CachedRegistryStore) UpsertActive(ctx context.Context, saleSourceID string, normalizedStyles []string) error {
	if err := c.RegistryStore.UpsertActive(ctx, saleSourceID, normalizedStyles); err != nil {
		return err
	}
	if c.caches != nil {
		return c.caches.InvalidateActiveStyles(ctx, saleSourceID)
	}
	return nil
}

func (c *CachedRegistryStore) DeactivateMissing(ctx context.Context, saleSourceID string, normalizedStyles []string) error {
	if err := c.RegistryStore.DeactivateMissing(ctx, saleSourceID, normalizedStyles); err != nil {
		return err
	}
	if c.caches != nil {
		return c.caches.InvalidateActiveStyles(ctx, saleSourceID)
	}
	return nil
}

func (c *CachedRegistryStore) SuggestColorMapping(ctx context.Context, bad, good string, confidence float64) error {
	if err := c.RegistryStore.SuggestColorMapping(ctx, bad, good, confidence); err != nil {
		return err
	}
	if c.caches != nil {
		return c.caches.InvalidateColorMapping(ctx)
	}
	return nil
}

// CachedMarketplaceStore fronts a store.MarketplaceStore with Caches's
// read-through per-style/per-SKU price lookups (C6's tiered expansion and
// step 15's compare-at lookup both issue repeated per-SKU reads per run).
type CachedMarketplaceStore struct {
	repo   store.MarketplaceStore
	caches *Caches
}

func NewCachedMarketplaceStore(repo store.MarketplaceStore, caches *Caches) *CachedMarketplaceStore {
	return &CachedMarketplaceStore{repo: repo, caches: caches}
}

func (c *CachedMarketplaceStore) PriceForStyle(ctx context.Context, storeID, style string) (float64, bool, error) {
	if c.caches == nil {
		return c.repo.PriceForStyle(ctx, storeID, style)
	}
	return c.caches.MarketplacePrice(ctx, storeID, style, func(ctx context.Context) (float64, bool, error) {
		return c.repo.PriceForStyle(ctx, storeID, style)
	})
}

func (c *CachedMarketplaceStore) PriceForSKU(ctx context.Context, storeID, sku string) (float64, bool, error) {
	if c.caches == nil {
		return c.repo.PriceForSKU(ctx, storeID, sku)
	}
	return c.caches.MarketplacePrice(ctx, storeID, sku, func(ctx context.Context) (float64, bool, error) {
		return c.repo.PriceForSKU(ctx, storeID, sku)
	})
}
