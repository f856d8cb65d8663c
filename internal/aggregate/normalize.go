package aggregate

import (
	"strings"
	"time"

	"newsdesk/internal/analyze"
	"newsdesk/internal/domain"
)

const (
	relevanceCommunity = 40
	relevanceWire      = 60
)

// Normalize maps one intermediate record to the canonical item shape and
// runs the cheap local analysis. Pure aside from the injected clock.
func Normalize(src domain.Source, rec domain.RawRecord, now time.Time) domain.Item {
	providerID := rec.ProviderID
	if providerID == "" {
		providerID = rec.URL
	}
	if providerID == "" {
		providerID = domain.TitleFingerprint(rec.Title)
	}

	published := rec.PublishedAt
	if published.IsZero() {
		published = now
	}

	sentiment := analyze.ScoreSentiment(rec.Title, rec.Description)
	tickers := analyze.ExtractTickers(strings.TrimSpace(rec.Title + " " + rec.Description))

	category := ""
	if len(src.Categories) > 0 {
		category = src.Categories[0]
	}

	return domain.Item{
		ID:             domain.ItemID(src.ID, providerID),
		Title:          rec.Title,
		Description:    rec.Description,
		URL:            rec.URL,
		ImageURL:       rec.ImageURL,
		Author:         rec.Author,
		SourceID:       src.ID,
		SourceName:     src.Name,
		Category:       category,
		Tags:           append([]string(nil), src.Categories...),
		PublishedAt:    published.UTC(),
		FetchedAt:      now.UTC(),
		RelatedTickers: tickers,
		Ups:            rec.Ups,
		Comments:       rec.Comments,
		Algo: domain.AlgoAnalysis{
			Sentiment:  sentiment.Sentiment,
			Score:      sentiment.Score,
			Confidence: sentiment.Confidence,
			Relevance:  baseRelevance(src),
		},
	}
}

func baseRelevance(src domain.Source) int {
	if src.HasCategory(domain.CategoryCommunity) {
		return relevanceCommunity
	}
	return relevanceWire
}
