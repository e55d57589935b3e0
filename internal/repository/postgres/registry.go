package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// RegistryRepository backs store.RegistryStore: the discontinued-style
// cross-reference table (C7) and the global color-mapping table (C3/C5).
type RegistryRepository struct {
	db *DB
}

func NewRegistryRepository(db *DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

func (r *RegistryRepository) UpsertActive(ctx context.Context, saleSourceID string, normalizedStyles []string) error {
	if len(normalizedStyles) == 0 {
		return nil
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO discontinued_styles (sale_source_id, normalized_style, active, updated_at)
			VALUES ($1, $2, true, NOW())
			ON CONFLICT (sale_source_id, normalized_style)
			DO UPDATE SET active = true, updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("prepare discontinued upsert: %w", err)
		}
		defer stmt.Close()
		for _, style := range normalizedStyles {
			if _, err := stmt.ExecContext(ctx, saleSourceID, style); err != nil {
				return fmt.Errorf("upsert discontinued style %s: %w", style, err)
			}
		}
		return nil
	})
}

func (r *RegistryRepository) DeactivateMissing(ctx context.Context, saleSourceID string, normalizedStyles []string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE discontinued_styles SET active = false, updated_at = NOW()
			WHERE sale_source_id = $1 AND NOT (normalized_style = ANY($2))`,
			saleSourceID, pq.Array(normalizedStyles))
		if err != nil {
			return fmt.Errorf("deactivate missing discontinued styles: %w", err)
		}
		return nil
	})
}

func (r *RegistryRepository) ActiveStyles(ctx context.Context, saleSourceID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT normalized_style FROM discontinued_styles
		WHERE sale_source_id = $1 AND active = true`, saleSourceID)
	if err != nil {
		return nil, fmt.Errorf("query active discontinued styles: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var style string
		if err := rows.Scan(&style); err != nil {
			return nil, fmt.Errorf("scan discontinued style: %w", err)
		}
		out[style] = true
	}
	return out, rows.Err()
}

func (r *RegistryRepository) ColorMappings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT bad_color, good_color FROM color_mappings`)
	if err != nil {
		return nil, fmt.Errorf("query color mappings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var bad, good string
		if err := rows.Scan(&bad, &good); err != nil {
			return nil, fmt.Errorf("scan color mapping: %w", err)
		}
		out[bad] = good
	}
	return out, rows.Err()
}

// SuggestColorMapping records an LLM-advisor suggestion (or an operator's
// manual entry) for later promotion into the live color_mappings table —
// the review sink internal/clean.ResolveColor hands suggestions to.
func (r *RegistryRepository) SuggestColorMapping(ctx context.Context, bad, good string, confidence float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO color_mapping_suggestions (bad_color, good_color, confidence, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (bad_color, good_color) DO UPDATE SET confidence = EXCLUDED.confidence`,
		bad, good, confidence)
	if err != nil {
		return fmt.Errorf("record color suggestion %s->%s: %w", bad, good, err)
	}
	return nil
}
