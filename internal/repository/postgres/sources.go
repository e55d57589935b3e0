package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// SourceRepository backs store.SourceStore. The Source's many optional
// sub-blocks (CleaningConfig, PriceExpansionConfig, etc.) are stored as one
// JSONB column rather than normalized across a dozen tables, the way the
// teacher's stock-health repository keeps rule payloads as JSONB.
type SourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{db: db}
}

type sourceRow struct {
	ID                   string
	DisplayName          string
	Kind                 string
	Role                 string
	LinkedSaleSourceID   sql.NullString
	MarketplaceStoreID   sql.NullString
	UpdateStrategy       string
	Config               []byte // JSON-encoded remainder of domain.Source
	LastSyncAt           sql.NullTime
	LastDetectedFormat   sql.NullString
	LastDetectedConfidence sql.NullFloat64
}

func (r *SourceRepository) Get(ctx context.Context, sourceID string) (domain.Source, error) {
	var row sourceRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, kind, role, linked_sale_source_id,
		       marketplace_store_id, update_strategy, config, last_sync_at,
		       last_detected_format, last_detected_confidence
		FROM sources WHERE id = $1`, sourceID).Scan(
		&row.ID, &row.DisplayName, &row.Kind, &row.Role, &row.LinkedSaleSourceID,
		&row.MarketplaceStoreID, &row.UpdateStrategy, &row.Config, &row.LastSyncAt,
		&row.LastDetectedFormat, &row.LastDetectedConfidence)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, fmt.Errorf("source %s: %w", sourceID, sql.ErrNoRows)
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("get source %s: %w", sourceID, err)
	}
	return decodeSourceRow(row)
}

func (r *SourceRepository) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, kind, role, linked_sale_source_id,
		       marketplace_store_id, update_strategy, config, last_sync_at,
		       last_detected_format, last_detected_confidence
		FROM sources ORDER BY display_name`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var out []domain.Source
	for rows.Next() {
		var row sourceRow
		if err := rows.Scan(&row.ID, &row.DisplayName, &row.Kind, &row.Role,
			&row.LinkedSaleSourceID, &row.MarketplaceStoreID, &row.UpdateStrategy,
			&row.Config, &row.LastSyncAt, &row.LastDetectedFormat, &row.LastDetectedConfidence); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		src, err := decodeSourceRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

func (r *SourceRepository) Save(ctx context.Context, src domain.Source) error {
	cfg, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshal source config: %w", err)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sources (id, display_name, kind, role, linked_sale_source_id,
			                      marketplace_store_id, update_strategy, config, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			ON CONFLICT (id) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				kind = EXCLUDED.kind,
				role = EXCLUDED.role,
				linked_sale_source_id = EXCLUDED.linked_sale_source_id,
				marketplace_store_id = EXCLUDED.marketplace_store_id,
				update_strategy = EXCLUDED.update_strategy,
				config = EXCLUDED.config,
				updated_at = NOW()`,
			src.ID, src.DisplayName, string(src.Kind), string(src.Role),
			nullableString(src.LinkedSaleSourceID), nullableString(src.MarketplaceStoreID),
			string(src.UpdateStrategy), cfg)
		if err != nil {
			return fmt.Errorf("save source %s: %w", src.ID, err)
		}
		return nil
	})
}

// UpdateLastDetectedFormat is C12's write-back: it stores the layout the
// format learner settled on, with the given confidence, as the source's
// preferred layout so future runs try it before re-detecting.
func (r *SourceRepository) UpdateLastDetectedFormat(ctx context.Context, sourceID string, format string, confidence float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sources SET last_detected_format = $2, last_detected_confidence = $3, updated_at = NOW()
		WHERE id = $1`, sourceID, format, confidence)
	if err != nil {
		return fmt.Errorf("update detected format for %s: %w", sourceID, err)
	}
	return nil
}

func (r *SourceRepository) UpdateLastSyncedAt(ctx context.Context, sourceID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sources SET last_sync_at = $2, updated_at = NOW() WHERE id = $1`, sourceID, at)
	if err != nil {
		return fmt.Errorf("update last sync for %s: %w", sourceID, err)
	}
	return nil
}

func decodeSourceRow(row sourceRow) (domain.Source, error) {
	var src domain.Source
	if len(row.Config) > 0 {
		if err := json.Unmarshal(row.Config, &src); err != nil {
			return domain.Source{}, fmt.Errorf("unmarshal source config %s: %w", row.ID, err)
		}
	}
	src.ID = row.ID
	src.DisplayName = row.DisplayName
	src.Kind = domain.SourceKind(row.Kind)
	src.Role = domain.SourceRole(row.Role)
	src.UpdateStrategy = domain.UpdateStrategy(row.UpdateStrategy)
	if row.LinkedSaleSourceID.Valid {
		src.LinkedSaleSourceID = row.LinkedSaleSourceID.String
	}
	if row.MarketplaceStoreID.Valid {
		src.MarketplaceStoreID = row.MarketplaceStoreID.String
	}
	if row.LastSyncAt.Valid {
		t := row.LastSyncAt.Time
		src.LastSyncAt = &t
	}
	if row.LastDetectedFormat.Valid {
		src.FormatType = row.LastDetectedFormat.String
	}
	return src, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
