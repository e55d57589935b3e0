package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fenwickretail/invpipe/internal/acquisition"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/importstate"
	"github.com/fenwickretail/invpipe/internal/pipeline"
)

type memorySourceStore struct {
	sources map[string]domain.Source
}

func (m *memorySourceStore) Get(_ context.Context, id string) (domain.Source, error) {
	src, ok := m.sources[id]
	if !ok {
		return domain.Source{}, errors.New("source not found")
	}
	return src, nil
}

func (m *memorySourceStore) List(_ context.Context) ([]domain.Source, error) {
	var out []domain.Source
	for _, s := range m.sources {
		out = append(out, s)
	}
	return out, nil
}

func (m *memorySourceStore) Save(_ context.Context, src domain.Source) error {
	if m.sources == nil {
		m.sources = make(map[string]domain.Source)
	}
	m.sources[src.ID] = src
	return nil
}

func (m *memorySourceStore) UpdateLastDetectedFormat(_ context.Context, id, format string, _ float64) error {
	src := m.sources[id]
	src.FormatType = format
	src.PivotConfigEnabled = true
	m.sources[id] = src
	return nil
}

func (m *memorySourceStore) UpdateLastSyncedAt(_ context.Context, id string, at time.Time) error {
	src := m.sources[id]
	src.LastSyncAt = &at
	m.sources[id] = src
	return nil
}

func newTestService(t *testing.T, sources *memorySourceStore) *ImportService {
	t.Helper()
	// Pipeline deps left empty: writes and stats degrade to no-ops, which
	// is all the acquisition-and-locking behavior under test needs.
	return NewImportService(pipeline.Deps{Sources: sources}, acquisition.Deps{}, sources, 30, 20)
}

func TestTriggerManualUploadRunsPipeline(t *testing.T) {
	sources := &memorySourceStore{sources: map[string]domain.Source{
		"src-1": {
			ID:             "src-1",
			DisplayName:    "Vendor",
			Kind:           domain.SourceKindManual,
			Role:           domain.RoleRegular,
			UpdateStrategy: domain.StrategyFullSync,
		},
	}}
	svc := newTestService(t, sources)
	defer svc.Shutdown()

	files := map[string][]byte{
		"feed.csv": []byte("style,color,size,qty\nA100,Red,8,3\n"),
	}
	result, err := svc.TriggerManualUpload(context.Background(), "src-1", files)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ItemCount != 1 {
		t.Fatalf("result = %+v", result)
	}
	if sources.sources["src-1"].LastSyncAt == nil {
		t.Fatal("a successful run must advance the last-sync timestamp")
	}
}

func TestTriggerManualUploadUnknownSource(t *testing.T) {
	svc := newTestService(t, &memorySourceStore{})
	defer svc.Shutdown()

	_, err := svc.TriggerManualUpload(context.Background(), "missing", map[string][]byte{"a.csv": []byte("x")})
	if err == nil {
		t.Fatal("expected an error for an unknown source")
	}
}

func TestTriggerManualUploadNoFiles(t *testing.T) {
	sources := &memorySourceStore{sources: map[string]domain.Source{"src-1": {ID: "src-1", DisplayName: "V"}}}
	svc := newTestService(t, sources)
	defer svc.Shutdown()

	if _, err := svc.TriggerManualUpload(context.Background(), "src-1", nil); err == nil {
		t.Fatal("expected an error when no files are provided")
	}
}

func TestRunReleasesLockAfterFailure(t *testing.T) {
	sources := &memorySourceStore{sources: map[string]domain.Source{"src-1": {ID: "src-1", DisplayName: "V"}}}
	svc := newTestService(t, sources)
	defer svc.Shutdown()

	// An unreadable buffer fails the run; the per-source lock must be
	// released so the next attempt isn't reported busy.
	bad := map[string][]byte{"a.csv": {}}
	if _, err := svc.TriggerManualUpload(context.Background(), "src-1", bad); err == nil {
		t.Fatal("expected the empty buffer to fail")
	}

	good := map[string][]byte{"feed.csv": []byte("style,color,size,qty\nA100,Red,8,3\n")}
	if _, err := svc.TriggerManualUpload(context.Background(), "src-1", good); err != nil {
		if errors.Is(err, importstate.ErrBusy) {
			t.Fatal("the coordinator lock leaked from the failed run")
		}
		t.Fatal(err)
	}
}
