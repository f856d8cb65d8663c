package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/cache"
	"newsdesk/internal/domain"
	"newsdesk/internal/enrich"
	"newsdesk/internal/query"
)

type Aggregator interface {
	Aggregate(ctx context.Context, q, category string) []domain.Item
}

type Enricher interface {
	Enrich(ctx context.Context, items []domain.Item, credibility map[string]int) ([]domain.Item, error)
}

type SnapshotStore interface {
	Put(ctx context.Context, category string, snap cache.Snapshot) error
	Get(ctx context.Context, category string) (cache.Snapshot, bool)
}

type FlagStore interface {
	SetRead(ctx context.Context, itemID string, read bool) error
	SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error
	SetHidden(ctx context.Context, itemID string, hidden bool) error
	Flags(ctx context.Context, itemIDs []string) (map[string]domain.ItemFlags, error)
	BookmarkedIDs(ctx context.Context) ([]string, error)
}

type SourceDirectory interface {
	All() []domain.Source
	Enabled() []domain.Source
	ByID(id string) (domain.Source, bool)
	SetEnabled(id string, enabled bool) bool
}

// EnrichStatus reports the health of the AI gateway as seen by the service.
type EnrichStatus struct {
	Enabled    bool      `json:"enabled"`
	Suppressed bool      `json:"suppressed"`
	LastError  string    `json:"last_error,omitempty"`
	LastRunAt  time.Time `json:"last_run_at,omitempty"`
}

// NewsService owns the refresh cycle: aggregate, enrich, snapshot. Reads
// are served from the snapshot store and overlaid with user flags.
type NewsService struct {
	tracer     trace.Tracer
	aggregator Aggregator
	enricher   Enricher
	snapshots  SnapshotStore
	flags      FlagStore
	sources    SourceDirectory
	now        func() time.Time

	mu         sync.Mutex
	suppressed bool
	lastErr    string
	lastRunAt  time.Time
}

func NewNewsService(
	tracer trace.Tracer,
	aggregator Aggregator,
	enricher Enricher,
	snapshots SnapshotStore,
	flags FlagStore,
	sources SourceDirectory,
) *NewsService {
	return &NewsService{
		tracer:     tracer,
		aggregator: aggregator,
		enricher:   enricher,
		snapshots:  snapshots,
		flags:      flags,
		sources:    sources,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Tests use it.
func (s *NewsService) WithClock(now func() time.Time) *NewsService {
	s.now = now
	return s
}

// Refresh aggregates the category, runs enrichment when the gateway is
// healthy, and replaces the stored snapshot. The aggregated stream is
// returned even when enrichment or the snapshot write fails.
func (s *NewsService) Refresh(ctx context.Context, category string) ([]domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("news.category", category))

	if category == "" {
		category = domain.CategoryAll
	}
	items := s.aggregator.Aggregate(ctx, "", category)
	items = s.maybeEnrich(ctx, items)

	snap := cache.Snapshot{Items: items, FetchedAt: s.now()}
	if err := s.snapshots.Put(ctx, category, snap); err != nil {
		log.Printf("news-service: store snapshot %s: %v", category, err)
	}
	return items, nil
}

func (s *NewsService) maybeEnrich(ctx context.Context, items []domain.Item) []domain.Item {
	if s.enricher == nil || len(items) == 0 {
		return items
	}
	s.mu.Lock()
	suppressed := s.suppressed
	s.mu.Unlock()
	if suppressed {
		return items
	}

	enriched, err := s.enricher.Enrich(ctx, items, s.credibility())
	s.mu.Lock()
	s.lastRunAt = s.now()
	if err != nil {
		s.lastErr = err.Error()
		if errors.Is(err, enrich.ErrCreditsExhausted) {
			// Stop burning requests until the operator intervenes.
			s.suppressed = true
		}
	} else {
		s.lastErr = ""
	}
	s.mu.Unlock()
	if err != nil {
		log.Printf("news-service: enrichment skipped: %v", err)
		return items
	}
	return enriched
}

func (s *NewsService) credibility() map[string]int {
	creds := make(map[string]int)
	for _, src := range s.sources.All() {
		creds[src.ID] = src.Credibility
	}
	return creds
}

// Stream returns the filtered, sorted view of a category. A missing
// snapshot triggers a refresh.
func (s *NewsService) Stream(ctx context.Context, category string, filter domain.Filter, sortBy domain.SortOption) ([]domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.stream")
	defer span.End()

	items, err := s.categoryItems(ctx, category)
	if err != nil {
		return nil, err
	}
	items = s.overlayFlags(ctx, items)
	items = query.Apply(items, filter, s.now())
	return query.Sort(items, sortBy), nil
}

// Item looks an item up by id in the category snapshot it belongs to.
func (s *NewsService) Item(ctx context.Context, id string) (domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.item")
	defer span.End()

	items, err := s.categoryItems(ctx, domain.CategoryAll)
	if err != nil {
		return domain.Item{}, err
	}
	items = s.overlayFlags(ctx, items)
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.Item{}, fmt.Errorf("item %s not found", id)
}

// Bookmarks returns the bookmarked items, most recently bookmarked first.
func (s *NewsService) Bookmarks(ctx context.Context) ([]domain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.bookmarks")
	defer span.End()

	if s.flags == nil {
		return nil, nil
	}
	ids, err := s.flags.BookmarkedIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	items, err := s.categoryItems(ctx, domain.CategoryAll)
	if err != nil {
		return nil, err
	}
	items = s.overlayFlags(ctx, items)
	byID := make(map[string]domain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	var out []domain.Item
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *NewsService) categoryItems(ctx context.Context, category string) ([]domain.Item, error) {
	if category == "" {
		category = domain.CategoryAll
	}
	if snap, ok := s.snapshots.Get(ctx, category); ok {
		return snap.Items, nil
	}
	return s.Refresh(ctx, category)
}

func (s *NewsService) overlayFlags(ctx context.Context, items []domain.Item) []domain.Item {
	if s.flags == nil || len(items) == 0 {
		return items
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	flags, err := s.flags.Flags(ctx, ids)
	if err != nil {
		log.Printf("news-service: load flags: %v", err)
		return items
	}
	out := make([]domain.Item, len(items))
	copy(out, items)
	for i := range out {
		if f, ok := flags[out[i].ID]; ok {
			out[i].Flags = f
		}
	}
	return out
}

var errFlagsUnavailable = errors.New("flag persistence is not configured")

func (s *NewsService) SetRead(ctx context.Context, itemID string, read bool) error {
	if s.flags == nil {
		return errFlagsUnavailable
	}
	return s.flags.SetRead(ctx, itemID, read)
}

func (s *NewsService) SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error {
	if s.flags == nil {
		return errFlagsUnavailable
	}
	return s.flags.SetBookmarked(ctx, itemID, bookmarked)
}

func (s *NewsService) SetHidden(ctx context.Context, itemID string, hidden bool) error {
	if s.flags == nil {
		return errFlagsUnavailable
	}
	return s.flags.SetHidden(ctx, itemID, hidden)
}

func (s *NewsService) Sources() []domain.Source {
	return s.sources.All()
}

func (s *NewsService) SetSourceEnabled(id string, enabled bool) bool {
	return s.sources.SetEnabled(id, enabled)
}

// Status reports enrichment health for the status endpoint and the bot.
func (s *NewsService) Status() EnrichStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EnrichStatus{
		Enabled:    s.enricher != nil,
		Suppressed: s.suppressed,
		LastError:  s.lastErr,
		LastRunAt:  s.lastRunAt,
	}
}

// ResumeEnrichment clears the suppression latch, letting the next refresh
// try the gateway again.
func (s *NewsService) ResumeEnrichment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressed = false
	s.lastErr = ""
}
