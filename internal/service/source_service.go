package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/store"
)

// SourceService is the thin CRUD surface the API layer drives for source
// management, mirroring the way the teacher's POService sits directly on
// top of its repository for reads/writes that need no extra business
// logic beyond what the repository itself enforces.
type SourceService struct {
	repo store.SourceStore
}

func NewSourceService(repo store.SourceStore) *SourceService {
	return &SourceService{repo: repo}
}

func (s *SourceService) Get(ctx context.Context, id string) (domain.Source, error) {
	return s.repo.Get(ctx, id)
}

func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	return s.repo.List(ctx)
}

func (s *SourceService) Create(ctx context.Context, src domain.Source) (domain.Source, error) {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	if src.DisplayName == "" {
		return domain.Source{}, fmt.Errorf("source display name is required")
	}
	if err := s.repo.Save(ctx, src); err != nil {
		return domain.Source{}, err
	}
	return src, nil
}

func (s *SourceService) Update(ctx context.Context, src domain.Source) (domain.Source, error) {
	if src.ID == "" {
		return domain.Source{}, fmt.Errorf("source id is required")
	}
	if err := s.repo.Save(ctx, src); err != nil {
		return domain.Source{}, err
	}
	return src, nil
}

// StatsService answers the historical ImportStats comparison endpoint so
// an operator can eyeball C13's delta-check inputs without re-running an
// import.
type StatsService struct {
	repo store.StatsStore
}

func NewStatsService(repo store.StatsStore) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) History(ctx context.Context, sourceID string, limit int) ([]domain.ImportStats, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.History(ctx, sourceID, limit)
}
