package query

import (
	"testing"
	"time"

	"newsdesk/internal/domain"
)

var testClock = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

func sampleStream() []domain.Item {
	return []domain.Item{
		{
			ID:             "wire-1",
			Title:          "Fed signals dovish stance",
			SourceID:       "wire",
			Category:       domain.CategoryForex,
			PublishedAt:    testClock.Add(-30 * time.Minute),
			RelatedTickers: []string{"EURUSD", "DXY"},
			Algo:           domain.AlgoAnalysis{Sentiment: domain.SentimentBullish, Score: 40, Relevance: 70},
			ImpactScore:    80,
			Impact:         domain.ImpactHigh,
			Ups:            10,
		},
		{
			ID:          "wire-2",
			Title:       "Exchange hack drains wallets",
			Description: "Attackers moved funds through a bridge.",
			SourceID:    "wire",
			Category:    domain.CategoryCrypto,
			PublishedAt: testClock.Add(-3 * time.Hour),
			Algo:        domain.AlgoAnalysis{Sentiment: domain.SentimentBearish, Score: -55, Relevance: 85},
			AI: &domain.AIAnalysis{
				Sentiment:  domain.SentimentBearish,
				Confidence: 0.9,
				Impact:     domain.ImpactCritical,
			},
			ImpactScore: 91,
			Impact:      domain.ImpactCritical,
			Ups:         250,
			Comments:    90,
		},
		{
			ID:          "forum-3",
			Title:       "Weekly portfolio thread",
			SourceID:    "forum",
			Category:    domain.CategoryCommunity,
			PublishedAt: testClock.Add(-2 * 24 * time.Hour),
			Algo:        domain.AlgoAnalysis{Sentiment: domain.SentimentNeutral, Score: 0, Relevance: 30},
			ImpactScore: 22,
			Impact:      domain.ImpactLow,
			Ups:         900,
			Comments:    400,
			Flags:       domain.ItemFlags{Read: true},
		},
		{
			ID:          "wire-4",
			Title:       "Gold slips on profit taking",
			SourceID:    "metals",
			Category:    domain.CategoryGold,
			PublishedAt: testClock.Add(-10 * time.Minute),
			Algo:        domain.AlgoAnalysis{Sentiment: domain.SentimentBearish, Score: -20, Relevance: 60},
			ImpactScore: 45,
			Impact:      domain.ImpactMedium,
			Flags:       domain.ItemFlags{Hidden: true},
		},
	}
}

func ids(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func assertIDs(t *testing.T, items []domain.Item, want ...string) {
	t.Helper()
	got := ids(items)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestApplyEmptyFilterExcludesOnlyHidden(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{}, testClock)
	assertIDs(t, out, "wire-1", "wire-2", "forum-3")
}

func TestApplyTimeRange(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{TimeRange: domain.Range1h}, testClock)
	assertIDs(t, out, "wire-1")

	out = Apply(sampleStream(), domain.Filter{TimeRange: domain.Range24h}, testClock)
	assertIDs(t, out, "wire-1", "wire-2")
}

func TestApplySentimentPrefersAICall(t *testing.T) {
	stream := sampleStream()
	// wire-2's lexicon and AI agree; flip the AI call to bullish and the
	// item must follow the AI side.
	stream[1].AI.Sentiment = domain.SentimentBullish
	out := Apply(stream, domain.Filter{Sentiments: []domain.Sentiment{domain.SentimentBullish}}, testClock)
	assertIDs(t, out, "wire-1", "wire-2")
}

func TestApplyImpactAndSource(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{Impacts: []domain.Impact{domain.ImpactCritical}}, testClock)
	assertIDs(t, out, "wire-2")

	out = Apply(sampleStream(), domain.Filter{SourceIDs: []string{"forum"}}, testClock)
	assertIDs(t, out, "forum-3")
}

func TestApplyCategory(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{Categories: []string{domain.CategoryCrypto}}, testClock)
	assertIDs(t, out, "wire-2")

	out = Apply(sampleStream(), domain.Filter{Categories: []string{domain.CategoryAll}}, testClock)
	assertIDs(t, out, "wire-1", "wire-2", "forum-3")
}

func TestApplyTickers(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{Tickers: []string{"dxy"}}, testClock)
	assertIDs(t, out, "wire-1")
}

func TestApplySearchMatchesTitleAndDescription(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{Search: "DOVISH"}, testClock)
	assertIDs(t, out, "wire-1")

	out = Apply(sampleStream(), domain.Filter{Search: "bridge"}, testClock)
	assertIDs(t, out, "wire-2")
}

func TestApplyAIOnlyAndUnreadOnly(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{AIOnly: true}, testClock)
	assertIDs(t, out, "wire-2")

	out = Apply(sampleStream(), domain.Filter{UnreadOnly: true}, testClock)
	assertIDs(t, out, "wire-1", "wire-2")
}

func TestApplyCombinedFilters(t *testing.T) {
	out := Apply(sampleStream(), domain.Filter{
		TimeRange:  domain.Range24h,
		Sentiments: []domain.Sentiment{domain.SentimentBearish},
		SourceIDs:  []string{"wire"},
	}, testClock)
	assertIDs(t, out, "wire-2")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	stream := sampleStream()
	Apply(stream, domain.Filter{Search: "gold"}, testClock)
	if len(stream) != 4 || stream[3].ID != "wire-4" {
		t.Fatal("input slice was mutated")
	}
}

func TestSortTime(t *testing.T) {
	out := Sort(sampleStream(), domain.SortTime)
	assertIDs(t, out, "wire-4", "wire-1", "wire-2", "forum-3")
}

func TestSortImpact(t *testing.T) {
	out := Sort(sampleStream(), domain.SortImpact)
	assertIDs(t, out, "wire-2", "wire-1", "wire-4", "forum-3")
}

func TestSortSentimentByStrength(t *testing.T) {
	// Direction does not matter: the 0.9-confidence bearish call outranks
	// the +40 bullish read, and the neutral thread sorts last.
	out := Sort(sampleStream(), domain.SortSentiment)
	assertIDs(t, out, "wire-2", "wire-1", "wire-4", "forum-3")
}

func TestSortRelevanceAndEngagement(t *testing.T) {
	out := Sort(sampleStream(), domain.SortRelevance)
	assertIDs(t, out, "wire-2", "wire-1", "wire-4", "forum-3")

	out = Sort(sampleStream(), domain.SortEngagement)
	if out[0].ID != "forum-3" {
		t.Fatalf("expected community thread first by engagement, got %s", out[0].ID)
	}
}

func TestSortStableForTies(t *testing.T) {
	items := []domain.Item{
		{ID: "a", ImpactScore: 50},
		{ID: "b", ImpactScore: 50},
		{ID: "c", ImpactScore: 50},
	}
	out := Sort(items, domain.SortImpact)
	assertIDs(t, out, "a", "b", "c")
}
