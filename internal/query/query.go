// Package query filters and sorts ranked item streams. Everything here is
// pure: inputs are never mutated and no clock or store is consulted beyond
// the reference time passed in.
package query

import (
	"sort"
	"strings"
	"time"

	"newsdesk/internal/domain"
)

// Apply returns the items matching every criterion in the filter. Hidden
// items are always excluded. now anchors the time-range cutoff.
func Apply(items []domain.Item, f domain.Filter, now time.Time) []domain.Item {
	var cutoff time.Time
	if d, ok := f.TimeRange.Duration(); ok {
		cutoff = now.Add(-d)
	}

	var out []domain.Item
	for _, item := range items {
		if item.Flags.Hidden {
			continue
		}
		if !cutoff.IsZero() && item.PublishedAt.Before(cutoff) {
			continue
		}
		if !matchesSentiment(item, f.Sentiments) {
			continue
		}
		if len(f.Impacts) > 0 && !containsImpact(f.Impacts, item.Impact) {
			continue
		}
		if len(f.SourceIDs) > 0 && !containsString(f.SourceIDs, item.SourceID) {
			continue
		}
		if len(f.Categories) > 0 && !matchesCategory(item, f.Categories) {
			continue
		}
		if len(f.Tickers) > 0 && !matchesTicker(item, f.Tickers) {
			continue
		}
		if f.Search != "" && !matchesSearch(item, f.Search) {
			continue
		}
		if f.AIOnly && !item.AIAnalyzed() {
			continue
		}
		if f.UnreadOnly && item.Flags.Read {
			continue
		}
		out = append(out, item)
	}
	return out
}

// effectiveSentiment prefers the AI call when present, falling back to the
// lexicon result.
func effectiveSentiment(item domain.Item) domain.Sentiment {
	if item.AI != nil {
		return item.AI.Sentiment
	}
	return item.Algo.Sentiment
}

func matchesSentiment(item domain.Item, wanted []domain.Sentiment) bool {
	if len(wanted) == 0 {
		return true
	}
	got := effectiveSentiment(item)
	for _, s := range wanted {
		if s == got {
			return true
		}
	}
	return false
}

func containsImpact(haystack []domain.Impact, needle domain.Impact) bool {
	for _, i := range haystack {
		if i == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func matchesCategory(item domain.Item, categories []string) bool {
	for _, c := range categories {
		if c == domain.CategoryAll || c == item.Category || containsString(item.Tags, c) {
			return true
		}
	}
	return false
}

func matchesTicker(item domain.Item, tickers []string) bool {
	for _, t := range tickers {
		if containsString(item.RelatedTickers, strings.ToUpper(t)) {
			return true
		}
	}
	return false
}

func matchesSearch(item domain.Item, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term)
}

// Sort returns a copy of items ordered by the given option, descending.
// Ties keep their incoming order, so sorting an impact-ranked stream by
// another key degrades predictably.
func Sort(items []domain.Item, by domain.SortOption) []domain.Item {
	out := make([]domain.Item, len(items))
	copy(out, items)

	var less func(a, b domain.Item) bool
	switch by {
	case domain.SortTime:
		less = func(a, b domain.Item) bool { return a.PublishedAt.After(b.PublishedAt) }
	case domain.SortSentiment:
		less = func(a, b domain.Item) bool { return sentimentRank(a) > sentimentRank(b) }
	case domain.SortRelevance:
		less = func(a, b domain.Item) bool { return a.Algo.Relevance > b.Algo.Relevance }
	case domain.SortEngagement:
		less = func(a, b domain.Item) bool { return a.Engagement() > b.Engagement() }
	default:
		less = func(a, b domain.Item) bool { return a.ImpactScore > b.ImpactScore }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// sentimentRank orders by strength of the call regardless of direction. A
// strong bearish read ranks with a strong bullish one; neutral sits last.
// AI sentiment is preferred over the algorithmic score when present.
func sentimentRank(item domain.Item) int {
	score := item.Algo.Score
	if score < 0 {
		score = -score
	}
	if item.AI != nil {
		switch item.AI.Sentiment {
		case domain.SentimentBullish, domain.SentimentBearish:
			score = int(item.AI.Confidence * 100)
		default:
			score = 0
		}
	}
	return score
}
