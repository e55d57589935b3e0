package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// StatsRepository backs store.StatsStore: one row per completed run, kept
// for the historical-delta validation checks (C13 family 4).
type StatsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Save(ctx context.Context, sourceID string, stats domain.ImportStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal import stats: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO import_stats (source_id, recorded_at, item_count, total_stock, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		sourceID, stats.Timestamp, stats.ItemCount, stats.TotalStock, payload)
	if err != nil {
		return fmt.Errorf("save import stats for %s: %w", sourceID, err)
	}
	return nil
}

func (r *StatsRepository) Previous(ctx context.Context, sourceID string) (*domain.ImportStats, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM import_stats WHERE source_id = $1
		ORDER BY recorded_at DESC LIMIT 1`, sourceID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query previous import stats for %s: %w", sourceID, err)
	}
	var stats domain.ImportStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal previous import stats for %s: %w", sourceID, err)
	}
	return &stats, nil
}

func (r *StatsRepository) History(ctx context.Context, sourceID string, limit int) ([]domain.ImportStats, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM import_stats WHERE source_id = $1
		ORDER BY recorded_at DESC LIMIT $2`, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query import stats history for %s: %w", sourceID, err)
	}
	defer rows.Close()

	var out []domain.ImportStats
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan import stats row: %w", err)
		}
		var stats domain.ImportStats
		if err := json.Unmarshal(payload, &stats); err != nil {
			return nil, fmt.Errorf("unmarshal import stats row: %w", err)
		}
		out = append(out, stats)
	}
	return out, rows.Err()
}
