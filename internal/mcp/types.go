package mcp

import (
	"fmt"
	"strings"

	"newsdesk/internal/domain"
)

const (
	defaultItemLimit = 20
	maxItemLimit     = 100
)

var supportedCategories = []string{
	domain.CategoryAll, domain.CategoryForex, domain.CategoryCrypto,
	domain.CategoryStocks, domain.CategoryGold, domain.CategoryCommodities,
	domain.CategoryTech, domain.CategoryCommunity,
}

type newsListInput struct {
	Category  string `json:"category,omitempty" jsonschema:"optional category: all, forex, crypto, stocks, gold, commodities, tech, community"`
	Range     string `json:"range,omitempty" jsonschema:"optional time range: 1h, 4h, 24h, 7d, all"`
	Impact    string `json:"impact,omitempty" jsonschema:"optional minimum detail filter: critical, high, medium, low"`
	Sentiment string `json:"sentiment,omitempty" jsonschema:"optional sentiment: bullish, bearish, neutral"`
	Limit     int    `json:"limit,omitempty" jsonschema:"number of items to return, max 100"`
}

type newsListOutput struct {
	Items []domain.Item `json:"items"`
}

type newsSearchInput struct {
	Query    string `json:"query" jsonschema:"case-insensitive search over titles and descriptions"`
	Category string `json:"category,omitempty" jsonschema:"optional category to search within"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of items to return, max 100"`
}

type newsSearchOutput struct {
	Items []domain.Item `json:"items"`
}

type sourcesListInput struct{}

type sourcesListOutput struct {
	Sources []domain.Source `json:"sources"`
}

type newsRefreshInput struct {
	Category string `json:"category,omitempty" jsonschema:"optional category to refresh, defaults to all"`
}

type newsRefreshOutput struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func normalizeCategory(category string) (string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return domain.CategoryAll, nil
	}
	for _, known := range supportedCategories {
		if category == known {
			return category, nil
		}
	}
	return "", fmt.Errorf("unsupported category: %s", category)
}

func normalizeRange(raw string) (domain.TimeRange, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == string(domain.RangeAll) {
		return domain.RangeAll, nil
	}
	tr := domain.TimeRange(raw)
	if _, ok := tr.Duration(); !ok {
		return "", fmt.Errorf("unsupported range: %s", raw)
	}
	return tr, nil
}

func normalizeItemLimit(limit int) int {
	if limit <= 0 {
		return defaultItemLimit
	}
	if limit > maxItemLimit {
		return maxItemLimit
	}
	return limit
}

func normalizeListFilter(in newsListInput) (domain.Filter, error) {
	var filter domain.Filter

	tr, err := normalizeRange(in.Range)
	if err != nil {
		return domain.Filter{}, err
	}
	filter.TimeRange = tr

	if raw := strings.ToLower(strings.TrimSpace(in.Impact)); raw != "" {
		impact := domain.Impact(raw)
		if !impact.IsValid() {
			return domain.Filter{}, fmt.Errorf("unsupported impact: %s", raw)
		}
		filter.Impacts = []domain.Impact{impact}
	}

	if raw := strings.ToLower(strings.TrimSpace(in.Sentiment)); raw != "" {
		sentiment := domain.Sentiment(raw)
		if !sentiment.IsValid() {
			return domain.Filter{}, fmt.Errorf("unsupported sentiment: %s", raw)
		}
		filter.Sentiments = []domain.Sentiment{sentiment}
	}

	return filter, nil
}

func capItems(items []domain.Item, limit int) []domain.Item {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
