package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MarketplaceRepository backs store.MarketplaceStore: the style-level
// lookup C6's price expander needs and the SKU-level lookup step 15's
// compare-at pricing needs, both read from a marketplace_prices table kept
// in sync by whatever separately ingests marketplace listings.
type MarketplaceRepository struct {
	db *DB
}

func NewMarketplaceRepository(db *DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

func (r *MarketplaceRepository) PriceForStyle(ctx context.Context, storeID, style string) (float64, bool, error) {
	var price sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(price) FROM marketplace_prices
		WHERE store_id = $1 AND style = $2`, storeID, style).Scan(&price)
	if err != nil {
		return 0, false, fmt.Errorf("lookup marketplace price for style %s: %w", style, err)
	}
	if !price.Valid {
		return 0, false, nil
	}
	return price.Float64, true, nil
}

func (r *MarketplaceRepository) PriceForSKU(ctx context.Context, storeID, sku string) (float64, bool, error) {
	var price float64
	err := r.db.QueryRowContext(ctx, `
		SELECT price FROM marketplace_prices
		WHERE store_id = $1 AND sku = $2
		ORDER BY updated_at DESC LIMIT 1`, storeID, sku).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup marketplace price for sku %s: %w", sku, err)
	}
	return price, true, nil
}
