package mcp

import (
	"testing"

	"newsdesk/internal/domain"
)

func TestNormalizeCategory(t *testing.T) {
	c, err := normalizeCategory(" Crypto ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != domain.CategoryCrypto {
		t.Fatalf("expected crypto, got %s", c)
	}

	c, err = normalizeCategory("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != domain.CategoryAll {
		t.Fatalf("expected all for empty input, got %s", c)
	}

	if _, err := normalizeCategory("memes"); err == nil {
		t.Fatal("expected unsupported category error")
	}
}

func TestNormalizeRange(t *testing.T) {
	tr, err := normalizeRange("4h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr != domain.Range4h {
		t.Fatalf("expected 4h, got %s", tr)
	}

	tr, err = normalizeRange("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr != domain.RangeAll {
		t.Fatalf("expected all for empty input, got %s", tr)
	}

	if _, err := normalizeRange("2h"); err == nil {
		t.Fatal("expected unsupported range error")
	}
}

func TestNormalizeItemLimit(t *testing.T) {
	if got := normalizeItemLimit(0); got != defaultItemLimit {
		t.Fatalf("expected default limit %d, got %d", defaultItemLimit, got)
	}
	if got := normalizeItemLimit(999); got != maxItemLimit {
		t.Fatalf("expected capped limit %d, got %d", maxItemLimit, got)
	}
	if got := normalizeItemLimit(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestNormalizeListFilter(t *testing.T) {
	filter, err := normalizeListFilter(newsListInput{
		Range:     "24h",
		Impact:    "CRITICAL",
		Sentiment: "bearish",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.TimeRange != domain.Range24h {
		t.Fatalf("expected 24h range, got %s", filter.TimeRange)
	}
	if len(filter.Impacts) != 1 || filter.Impacts[0] != domain.ImpactCritical {
		t.Fatalf("unexpected impacts: %+v", filter.Impacts)
	}
	if len(filter.Sentiments) != 1 || filter.Sentiments[0] != domain.SentimentBearish {
		t.Fatalf("unexpected sentiments: %+v", filter.Sentiments)
	}

	if _, err := normalizeListFilter(newsListInput{Impact: "huge"}); err == nil {
		t.Fatal("expected unsupported impact error")
	}
	if _, err := normalizeListFilter(newsListInput{Sentiment: "angry"}); err == nil {
		t.Fatal("expected unsupported sentiment error")
	}
}
