package score

import (
	"math"
	"strings"
	"time"

	"newsdesk/internal/domain"
)

const (
	maxCredibility = 20
	maxRelevance   = 25
	maxTiming      = 15
	maxContext     = 20
	maxAI          = 20
	maxTotal       = 100

	baseRelevance      = 10.0
	highKeywordBonus   = 3.0
	mediumKeywordBonus = 1.5

	baseContext     = 10.0
	sessionContext  = 15.0
	breakingContext = 20.0
)

var highImpactKeywords = []string{
	"fed", "fomc", "rate", "cpi", "inflation", "crash",
	"recession", "war", "hack", "ban", "default", "emergency",
}

var mediumImpactKeywords = []string{
	"earnings", "upgrade", "downgrade", "guidance", "merger",
	"acquisition", "ipo", "dividend", "forecast", "etf",
}

// Input is the view of an item the scorer consumes: exactly the five
// sub-score inputs, nothing else.
type Input struct {
	Credibility  int
	Title        string
	PublishedAt  time.Time
	Breaking     bool
	AIConfidence float64
}

// Breakdown carries the five bounded components of an impact score.
type Breakdown struct {
	Credibility float64
	Relevance   float64
	Timing      float64
	Context     float64
	AI          float64
}

func (b Breakdown) Total() int {
	total := math.Round(b.Credibility + b.Relevance + b.Timing + b.Context + b.AI)
	if total > maxTotal {
		total = maxTotal
	}
	if total < 0 {
		total = 0
	}
	return int(total)
}

// Score computes the 0-100 impact score for an item view at the given
// wall-clock instant. Deterministic: identical inputs and clock produce an
// identical breakdown.
func Score(in Input, now time.Time) Breakdown {
	return Breakdown{
		Credibility: credibilityScore(in.Credibility),
		Relevance:   relevanceScore(in.Title),
		Timing:      timingScore(in.PublishedAt, now),
		Context:     contextScore(in.Breaking, now),
		AI:          aiScore(in.AIConfidence),
	}
}

// Category maps a total score to its impact bucket.
func Category(total int) domain.Impact {
	switch {
	case total >= 85:
		return domain.ImpactCritical
	case total >= 65:
		return domain.ImpactHigh
	case total >= 40:
		return domain.ImpactMedium
	default:
		return domain.ImpactLow
	}
}

// Apply recomputes an item's impact score and category in place.
func Apply(item *domain.Item, credibility int, now time.Time) {
	b := Score(Input{
		Credibility:  credibility,
		Title:        item.Title,
		PublishedAt:  item.PublishedAt,
		Breaking:     item.Breaking,
		AIConfidence: item.AIConfidence(),
	}, now)
	item.ImpactScore = b.Total()
	item.Impact = Category(item.ImpactScore)
}

func credibilityScore(weight int) float64 {
	if weight < 0 {
		return 0
	}
	if weight > maxCredibility {
		return maxCredibility
	}
	return float64(weight)
}

func relevanceScore(title string) float64 {
	lower := strings.ToLower(title)
	total := baseRelevance
	for _, kw := range highImpactKeywords {
		if strings.Contains(lower, kw) {
			total += highKeywordBonus
		}
	}
	for _, kw := range mediumImpactKeywords {
		if strings.Contains(lower, kw) {
			total += mediumKeywordBonus
		}
	}
	if total > maxRelevance {
		total = maxRelevance
	}
	return total
}

func timingScore(publishedAt, now time.Time) float64 {
	age := now.Sub(publishedAt)
	switch {
	case age <= 5*time.Minute:
		return 15
	case age <= 30*time.Minute:
		return 12
	case age <= 60*time.Minute:
		return 9
	case age <= 180*time.Minute:
		return 6
	case age <= 1440*time.Minute:
		return 3
	default:
		return 1
	}
}

// Core sessions: US cash hours and the Asia open, in UTC.
func contextScore(breaking bool, now time.Time) float64 {
	if breaking {
		return breakingContext
	}
	hour := now.UTC().Hour()
	if (hour >= 13 && hour < 21) || hour < 4 {
		return sessionContext
	}
	return baseContext
}

func aiScore(confidence float64) float64 {
	if confidence <= 0 {
		return 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return maxAI * confidence
}
