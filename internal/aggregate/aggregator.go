package aggregate

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"newsdesk/internal/domain"
	"newsdesk/internal/score"
)

const defaultBudget = 20 * time.Second

type SourceResolver interface {
	ByCategory(category string) []domain.Source
}

type Fetcher interface {
	Fetch(ctx context.Context, src domain.Source, query string) []domain.RawRecord
}

// BreakingDetector may flip the breaking flag on normalized items before
// scoring. The pipeline itself never sets the flag.
type BreakingDetector interface {
	Mark(items []domain.Item)
}

// Aggregator fans fetches out across the resolved sources, normalizes and
// scores the results, and returns the ranked, de-duplicated stream.
type Aggregator struct {
	tracer   trace.Tracer
	sources  SourceResolver
	fetcher  Fetcher
	detector BreakingDetector
	budget   time.Duration
	now      func() time.Time
}

func New(tracer trace.Tracer, sources SourceResolver, fetcher Fetcher) *Aggregator {
	return &Aggregator{
		tracer:  tracer,
		sources: sources,
		fetcher: fetcher,
		budget:  defaultBudget,
		now:     time.Now,
	}
}

// WithDetector attaches an optional breaking-news detector.
func (a *Aggregator) WithDetector(d BreakingDetector) *Aggregator {
	a.detector = d
	return a
}

// WithBudget overrides the soft wall-clock budget for one aggregator.
func (a *Aggregator) WithBudget(budget time.Duration) *Aggregator {
	if budget > 0 {
		a.budget = budget
	}
	return a
}

// WithClock injects a deterministic clock for tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	if now != nil {
		a.now = now
	}
	return a
}

// Aggregate resolves the category's sources, fetches them in parallel, and
// returns items sorted by impact descending (stable for equal scores). One
// failing source never fails the aggregate; cancellation returns whatever
// completed, fully normalized and scored.
func (a *Aggregator) Aggregate(ctx context.Context, query, category string) []domain.Item {
	ctx, span := a.tracer.Start(ctx, "aggregate.run")
	span.SetAttributes(attribute.String("news.category", category))
	defer span.End()

	srcs := a.sources.ByCategory(category)
	if len(srcs) == 0 {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.budget)
	defer cancel()

	// In-flight concurrency is bounded to the source count so rate-limit
	// state stays per source.
	results := make([][]domain.RawRecord, len(srcs))
	var g errgroup.Group
	g.SetLimit(len(srcs))
	for i := range srcs {
		i := i
		g.Go(func() error {
			results[i] = a.fetcher.Fetch(fetchCtx, srcs[i], query)
			return nil
		})
	}
	g.Wait()

	now := a.now()

	seen := make(map[string]struct{})
	items := make([]domain.Item, 0, 64)
	for i, src := range srcs {
		for _, rec := range results[i] {
			item := Normalize(src, rec, now)
			fp := domain.TitleFingerprint(item.Title)
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			items = append(items, item)
		}
	}

	if a.detector != nil {
		a.detector.Mark(items)
	}

	creds := make(map[string]int, len(srcs))
	for _, src := range srcs {
		creds[src.ID] = src.Credibility
	}
	for i := range items {
		score.Apply(&items[i], creds[items[i].SourceID], now)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ImpactScore > items[j].ImpactScore
	})

	span.SetAttributes(attribute.Int("news.items", len(items)))
	return items
}
