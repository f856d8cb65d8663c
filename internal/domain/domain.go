package domain

import "time"

type Transport string

const (
	TransportJSONAPI Transport = "json-api"
	TransportFeed    Transport = "syndication-feed"
)

const (
	CategoryAll         = "all"
	CategoryForex       = "forex"
	CategoryCrypto      = "crypto"
	CategoryStocks      = "stocks"
	CategoryGold        = "gold"
	CategoryCommodities = "commodities"
	CategoryTech        = "tech"
	CategoryCommunity   = "community"
)

// RawRecord is the provider-agnostic intermediate record produced by a
// payload parser before normalization.
type RawRecord struct {
	ProviderID  string
	Title       string
	Description string
	URL         string
	ImageURL    string
	Author      string
	PublishedAt time.Time
	Ups         int
	Comments    int
}

// PayloadParser turns one raw provider payload into intermediate records.
// Implementations must be pure and tolerate missing or null fields.
type PayloadParser interface {
	ParsePayload(body []byte) ([]RawRecord, error)
}

// Source describes one upstream provider. Descriptors are immutable after
// registry initialization aside from the enabled flag.
type Source struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Transport       Transport     `json:"transport"`
	Endpoint        string        `json:"endpoint"`
	NeedsKey        bool          `json:"needs_key"`
	RateLimitPerMin int           `json:"rate_limit_per_min"`
	Priority        int           `json:"priority"`
	Categories      []string      `json:"categories"`
	Enabled         bool          `json:"enabled"`
	Credibility     int           `json:"credibility"`
	Parser          PayloadParser `json:"-"`
}

func (s Source) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

func (s Sentiment) IsValid() bool {
	return s == SentimentBullish || s == SentimentBearish || s == SentimentNeutral
}

type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactHigh     Impact = "high"
	ImpactMedium   Impact = "medium"
	ImpactLow      Impact = "low"
)

func (i Impact) IsValid() bool {
	return i == ImpactCritical || i == ImpactHigh || i == ImpactMedium || i == ImpactLow
}

type TimeHorizon string

const (
	HorizonImmediate TimeHorizon = "immediate"
	HorizonShort     TimeHorizon = "short"
	HorizonMedium    TimeHorizon = "medium"
	HorizonLong      TimeHorizon = "long"
)

func (h TimeHorizon) IsValid() bool {
	switch h {
	case HorizonImmediate, HorizonShort, HorizonMedium, HorizonLong:
		return true
	}
	return false
}

// AlgoAnalysis is the cheap local analysis computed at normalization time.
type AlgoAnalysis struct {
	Sentiment  Sentiment `json:"sentiment"`
	Score      int       `json:"score"`
	Confidence float64   `json:"confidence"`
	Relevance  int       `json:"relevance"`
}

type TradingSignal struct {
	Action    string   `json:"action"`
	Strength  int      `json:"strength"`
	Assets    []string `json:"assets,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Timeframe string   `json:"timeframe,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`
	Risk      string   `json:"risk,omitempty"`
}

// AIAnalysis is populated as a group by the enrichment merge; a nil pointer
// on the item means the item has not been enriched.
type AIAnalysis struct {
	Sentiment   Sentiment      `json:"sentiment"`
	Confidence  float64        `json:"confidence"`
	Impact      Impact         `json:"impact"`
	TimeHorizon TimeHorizon    `json:"time_horizon"`
	Summary     string         `json:"summary"`
	KeyPoints   []string       `json:"key_points,omitempty"`
	Signal      *TradingSignal `json:"trading_signal,omitempty"`
}

type ItemFlags struct {
	Read       bool `json:"read"`
	Bookmarked bool `json:"bookmarked"`
	Hidden     bool `json:"hidden"`
}

// Item is the canonical news item. Created by the normalizer, mutated only
// by the enrichment merge and the flag overlay.
type Item struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	URL            string       `json:"url"`
	ImageURL       string       `json:"image_url,omitempty"`
	Author         string       `json:"author,omitempty"`
	SourceID       string       `json:"source_id"`
	SourceName     string       `json:"source_name"`
	Category       string       `json:"category"`
	Tags           []string     `json:"tags,omitempty"`
	PublishedAt    time.Time    `json:"published_at"`
	FetchedAt      time.Time    `json:"fetched_at"`
	Breaking       bool         `json:"breaking"`
	RelatedTickers []string     `json:"related_tickers,omitempty"`
	Ups            int          `json:"ups"`
	Comments       int          `json:"comments"`
	Algo           AlgoAnalysis `json:"analysis"`
	AI             *AIAnalysis  `json:"ai_analysis,omitempty"`
	ImpactScore    int          `json:"impact_score"`
	Impact         Impact       `json:"impact"`
	Flags          ItemFlags    `json:"flags"`
}

func (i *Item) AIAnalyzed() bool {
	return i.AI != nil
}

func (i *Item) AIConfidence() float64 {
	if i.AI == nil {
		return 0
	}
	return i.AI.Confidence
}

func (i *Item) Engagement() int {
	return i.Ups + i.Comments
}

type TimeRange string

const (
	RangeAll TimeRange = "all"
	Range1h  TimeRange = "1h"
	Range4h  TimeRange = "4h"
	Range24h TimeRange = "24h"
	Range7d  TimeRange = "7d"
)

func (r TimeRange) Duration() (time.Duration, bool) {
	switch r {
	case Range1h:
		return time.Hour, true
	case Range4h:
		return 4 * time.Hour, true
	case Range24h:
		return 24 * time.Hour, true
	case Range7d:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

type SortOption string

const (
	SortTime       SortOption = "time"
	SortImpact     SortOption = "impact"
	SortSentiment  SortOption = "sentiment"
	SortRelevance  SortOption = "relevance"
	SortEngagement SortOption = "engagement"
)

func (o SortOption) IsValid() bool {
	switch o {
	case SortTime, SortImpact, SortSentiment, SortRelevance, SortEngagement:
		return true
	}
	return false
}

// Filter selects a subset of the ranked stream. Empty slices match everything.
type Filter struct {
	TimeRange  TimeRange
	Sentiments []Sentiment
	Impacts    []Impact
	SourceIDs  []string
	Categories []string
	Tickers    []string
	Search     string
	AIOnly     bool
	UnreadOnly bool
}
