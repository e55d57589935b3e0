package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fenwickretail/invpipe/internal/acquisition"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/pipeline"
	"github.com/fenwickretail/invpipe/internal/service"
)

type stubSourceStore struct {
	sources map[string]domain.Source
}

func (s *stubSourceStore) Get(_ context.Context, id string) (domain.Source, error) {
	src, ok := s.sources[id]
	if !ok {
		return domain.Source{}, errors.New("not found")
	}
	return src, nil
}

func (s *stubSourceStore) List(_ context.Context) ([]domain.Source, error) {
	var out []domain.Source
	for _, src := range s.sources {
		out = append(out, src)
	}
	return out, nil
}

func (s *stubSourceStore) Save(_ context.Context, src domain.Source) error {
	if s.sources == nil {
		s.sources = make(map[string]domain.Source)
	}
	s.sources[src.ID] = src
	return nil
}

func (s *stubSourceStore) UpdateLastDetectedFormat(_ context.Context, id, format string, _ float64) error {
	src := s.sources[id]
	src.FormatType = format
	s.sources[id] = src
	return nil
}

func (s *stubSourceStore) UpdateLastSyncedAt(_ context.Context, id string, at time.Time) error {
	src := s.sources[id]
	src.LastSyncAt = &at
	s.sources[id] = src
	return nil
}

func testRouter(t *testing.T, sources *stubSourceStore) (*gin.Engine, *service.ImportService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	imports := service.NewImportService(pipeline.Deps{Sources: sources}, acquisition.Deps{}, sources, 30, 20)
	router := NewRouter(&Services{
		Sources: service.NewSourceService(sources),
		Imports: imports,
	}, nil)
	return router, imports
}

func TestCreateAndGetSource(t *testing.T) {
	sources := &stubSourceStore{}
	router, imports := testRouter(t, sources)
	defer imports.Shutdown()

	body, _ := json.Marshal(domain.Source{
		ID:          "src-1",
		DisplayName: "Jovani",
		Kind:        domain.SourceKindManual,
		Role:        domain.RoleRegular,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sources/src-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got domain.Source
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.DisplayName != "Jovani" {
		t.Fatalf("round-tripped source = %+v", got)
	}
}

func TestGetUnknownSourceIs404(t *testing.T) {
	router, imports := testRouter(t, &stubSourceStore{})
	defer imports.Shutdown()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUploadRunsManualImport(t *testing.T) {
	sources := &stubSourceStore{sources: map[string]domain.Source{
		"src-1": {
			ID:             "src-1",
			DisplayName:    "Jovani",
			Kind:           domain.SourceKindManual,
			Role:           domain.RoleRegular,
			UpdateStrategy: domain.StrategyFullSync,
		},
	}}
	router, imports := testRouter(t, sources)
	defer imports.Shutdown()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "feed.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("style,color,size,qty\n1012,Red,8,3\n")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/src-1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d body = %s", w.Code, w.Body.String())
	}

	var result pipeline.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ItemCount != 1 {
		t.Fatalf("result = %+v", result)
	}
	if sources.sources["src-1"].LastSyncAt == nil {
		t.Fatal("a successful upload must advance the source's last-sync timestamp")
	}
}

func TestUploadWithNoFilesIs400(t *testing.T) {
	router, imports := testRouter(t, &stubSourceStore{})
	defer imports.Shutdown()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sources/src-1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}
