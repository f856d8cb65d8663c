package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/cache"
	"newsdesk/internal/domain"
	"newsdesk/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testClock = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

type stubAggregator struct {
	items []domain.Item
}

func (a *stubAggregator) Aggregate(ctx context.Context, q, category string) []domain.Item {
	return a.items
}

type memSnapshots struct {
	snaps map[string]cache.Snapshot
}

func (m *memSnapshots) Put(ctx context.Context, category string, snap cache.Snapshot) error {
	m.snaps[category] = snap
	return nil
}

func (m *memSnapshots) Get(ctx context.Context, category string) (cache.Snapshot, bool) {
	snap, ok := m.snaps[category]
	return snap, ok
}

type stubDirectory struct {
	sources []domain.Source
}

func (d *stubDirectory) All() []domain.Source     { return d.sources }
func (d *stubDirectory) Enabled() []domain.Source { return d.sources }

func (d *stubDirectory) ByID(id string) (domain.Source, bool) {
	for _, s := range d.sources {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Source{}, false
}

func (d *stubDirectory) SetEnabled(id string, enabled bool) bool {
	for i := range d.sources {
		if d.sources[i].ID == id {
			d.sources[i].Enabled = enabled
			return true
		}
	}
	return false
}

func sampleItems() []domain.Item {
	return []domain.Item{
		{ID: "wire-1", SourceID: "wire", Title: "Fed cuts rates", Category: domain.CategoryForex, PublishedAt: testClock.Add(-time.Minute), ImpactScore: 80, Impact: domain.ImpactHigh},
		{ID: "wire-2", SourceID: "wire", Title: "Gold steady ahead of data", Category: domain.CategoryGold, PublishedAt: testClock.Add(-time.Hour), ImpactScore: 40, Impact: domain.ImpactMedium},
	}
}

func newTestHandler(items []domain.Item) *Handler {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	dir := &stubDirectory{sources: []domain.Source{{ID: "wire", Name: "Wire", Enabled: true, Credibility: 16}}}
	snaps := &memSnapshots{snaps: map[string]cache.Snapshot{}}
	svc := service.NewNewsService(tracer, &stubAggregator{items: items}, nil, snaps, nil, dir).
		WithClock(func() time.Time { return testClock })
	return New(tracer, svc, nil)
}

func newTestRouter(h *Handler) *gin.Engine {
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(nil)), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetNewsReturnsRankedStream(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(sampleItems())), http.MethodGet, "/api/news", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []domain.Item `json:"items"`
		Count int           `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Count != 2 || resp.Items[0].ID != "wire-1" {
		t.Fatalf("unexpected stream: %+v", resp)
	}
}

func TestGetNewsFilterParams(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(sampleItems())), http.MethodGet,
		"/api/news?impact=high&range=24h&sort=time", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Items []domain.Item `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "wire-1" {
		t.Fatalf("filter not applied: %+v", resp.Items)
	}
}

func TestGetNewsRejectsBadParams(t *testing.T) {
	router := newTestRouter(newTestHandler(sampleItems()))
	for _, target := range []string{
		"/api/news?range=2w",
		"/api/news?sentiment=euphoric",
		"/api/news?impact=massive",
		"/api/news?sort=chaos",
	} {
		if w := doRequest(router, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, w.Code)
		}
	}
}

func TestGetNewsItem(t *testing.T) {
	router := newTestRouter(newTestHandler(sampleItems()))

	w := doRequest(router, http.MethodGet, "/api/news/wire-2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var item domain.Item
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if item.Title != "Gold steady ahead of data" {
		t.Fatalf("unexpected item: %+v", item)
	}

	if w := doRequest(router, http.MethodGet, "/api/news/missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRefreshNews(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(sampleItems())), http.MethodPost, "/api/news/refresh?category=crypto", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Category != "crypto" || resp.Count != 2 {
		t.Fatalf("unexpected refresh response: %+v", resp)
	}
}

func TestGetStatus(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(nil)), http.MethodGet, "/api/news/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status service.EnrichStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if status.Enabled {
		t.Fatal("enrichment should be reported disabled")
	}
}

func TestSetFlagWithoutPersistence(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(sampleItems())), http.MethodPost,
		"/api/news/wire-1/read", `{"value":true}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without flag store, got %d", w.Code)
	}
}

func TestSetFlagRejectsBadBody(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(sampleItems())), http.MethodPost,
		"/api/news/wire-1/bookmark", `{"nope":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetSources(t *testing.T) {
	w := doRequest(newTestRouter(newTestHandler(nil)), http.MethodGet, "/api/sources", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Sources []domain.Source `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].ID != "wire" {
		t.Fatalf("unexpected sources: %+v", resp.Sources)
	}
}

func TestSetSourceEnabled(t *testing.T) {
	router := newTestRouter(newTestHandler(nil))

	if w := doRequest(router, http.MethodPost, "/api/sources/wire/enabled", `{"enabled":false}`); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/sources/nope/enabled", `{"enabled":true}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/sources/wire/enabled", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
