package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// VariantRepository is the postgres-backed store.VariantStore implementation
// for step 18's write phase, following the teacher's upsertStore/WithTx
// pattern from po_repository.go.
type VariantRepository struct {
	db *DB
}

func NewVariantRepository(db *DB) *VariantRepository {
	return &VariantRepository{db: db}
}

func (r *VariantRepository) ExistingCount(ctx context.Context, sourceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM variants WHERE source_id = $1`, sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count existing variants: %w", err)
	}
	return n, nil
}

func (r *VariantRepository) FullSyncReplace(ctx context.Context, sourceID string, items []domain.InventoryItem) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE source_id = $1`, sourceID); err != nil {
			return fmt.Errorf("clear existing variants: %w", err)
		}
		return insertVariants(ctx, tx, sourceID, items)
	})
}

func (r *VariantRepository) Upsert(ctx context.Context, sourceID string, items []domain.InventoryItem) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return insertVariants(ctx, tx, sourceID, items)
	})
}

func (r *VariantRepository) RemoveStylesForSource(ctx context.Context, sourceID string, styles []string) error {
	if len(styles) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM variants WHERE source_id = $1 AND style = ANY($2)`,
			sourceID, pq.Array(styles))
		if err != nil {
			return fmt.Errorf("remove discontinued styles: %w", err)
		}
		return nil
	})
}

const upsertVariantQuery = `
	INSERT INTO variants (
		source_id, file_id, sku, style, color, size, stock, price, cost,
		ship_date, sale_owns_style, flags, raw_data, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	ON CONFLICT (source_id, sku)
	DO UPDATE SET
		file_id = EXCLUDED.file_id,
		style = EXCLUDED.style,
		color = EXCLUDED.color,
		size = EXCLUDED.size,
		stock = EXCLUDED.stock,
		price = EXCLUDED.price,
		cost = EXCLUDED.cost,
		ship_date = EXCLUDED.ship_date,
		sale_owns_style = EXCLUDED.sale_owns_style,
		flags = EXCLUDED.flags,
		raw_data = EXCLUDED.raw_data,
		updated_at = NOW()
`

func insertVariants(ctx context.Context, tx *sql.Tx, sourceID string, items []domain.InventoryItem) error {
	stmt, err := tx.PrepareContext(ctx, upsertVariantQuery)
	if err != nil {
		return fmt.Errorf("prepare variant upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		flags, err := json.Marshal(it.Flags)
		if err != nil {
			return fmt.Errorf("marshal flags for %s: %w", it.SKU, err)
		}
		raw, err := json.Marshal(it.RawData)
		if err != nil {
			return fmt.Errorf("marshal raw data for %s: %w", it.SKU, err)
		}
		_, err = stmt.ExecContext(ctx,
			sourceID, it.FileID, it.SKU, it.Style, it.Color, it.Size, it.Stock,
			it.Price, it.Cost, it.ShipDate, it.SaleOwnsStyle, flags, raw)
		if err != nil {
			return fmt.Errorf("upsert variant %s: %w", it.SKU, err)
		}
	}
	return nil
}
