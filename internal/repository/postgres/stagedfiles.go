package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fenwickretail/invpipe/internal/domain"
)

// StagedFileRepository backs store.StagedFileStore for the email/manual
// multi-file combine flow (C11's combine adapter).
type StagedFileRepository struct {
	db *DB
}

func NewStagedFileRepository(db *DB) *StagedFileRepository {
	return &StagedFileRepository{db: db}
}

func (r *StagedFileRepository) Create(ctx context.Context, f domain.StagedFile) (string, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	header, err := json.Marshal(f.HeaderRow)
	if err != nil {
		return "", fmt.Errorf("marshal header row: %w", err)
	}
	preview, err := json.Marshal(f.PreviewRows)
	if err != nil {
		return "", fmt.Errorf("marshal preview rows: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO staged_files (id, source_id, file_name, header_row, preview_rows,
		                           status, message_id, content_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		f.ID, f.SourceID, f.FileName, header, preview, string(f.Status), f.MessageID, f.ContentHash)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	return f.ID, nil
}

func (r *StagedFileRepository) Get(ctx context.Context, id string) (domain.StagedFile, error) {
	return scanStagedFile(r.db.QueryRowContext(ctx, `
		SELECT id, source_id, file_name, header_row, preview_rows, status, message_id, content_hash
		FROM staged_files WHERE id = $1`, id))
}

func (r *StagedFileRepository) ListBySource(ctx context.Context, sourceID string, status domain.StagedFileStatus) ([]domain.StagedFile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_id, file_name, header_row, preview_rows, status, message_id, content_hash
		FROM staged_files WHERE source_id = $1 AND status = $2
		ORDER BY created_at`, sourceID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list staged files for %s: %w", sourceID, err)
	}
	defer rows.Close()

	var out []domain.StagedFile
	for rows.Next() {
		f, err := scanStagedFileRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *StagedFileRepository) UpdateStatus(ctx context.Context, id string, status domain.StagedFileStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE staged_files SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update staged file status %s: %w", id, err)
	}
	return nil
}

func (r *StagedFileRepository) FindByContentHash(ctx context.Context, sourceID, hash string) (*domain.StagedFile, error) {
	f, err := scanStagedFile(r.db.QueryRowContext(ctx, `
		SELECT id, source_id, file_name, header_row, preview_rows, status, message_id, content_hash
		FROM staged_files WHERE source_id = $1 AND content_hash = $2
		ORDER BY created_at DESC LIMIT 1`, sourceID, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStagedFile(row *sql.Row) (domain.StagedFile, error) {
	return scanStagedFileRows(row)
}

func scanStagedFileRows(row rowScanner) (domain.StagedFile, error) {
	var f domain.StagedFile
	var header, preview []byte
	var status string
	if err := row.Scan(&f.ID, &f.SourceID, &f.FileName, &header, &preview, &status, &f.MessageID, &f.ContentHash); err != nil {
		return domain.StagedFile{}, fmt.Errorf("scan staged file: %w", err)
	}
	f.Status = domain.StagedFileStatus(status)
	if len(header) > 0 {
		if err := json.Unmarshal(header, &f.HeaderRow); err != nil {
			return domain.StagedFile{}, fmt.Errorf("unmarshal header row: %w", err)
		}
	}
	if len(preview) > 0 {
		if err := json.Unmarshal(preview, &f.PreviewRows); err != nil {
			return domain.StagedFile{}, fmt.Errorf("unmarshal preview rows: %w", err)
		}
	}
	return f, nil
}
