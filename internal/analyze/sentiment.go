package analyze

import (
	"strings"

	"newsdesk/internal/domain"
)

const (
	weightStrong = 15
	weightMedium = 8
	weightWeak   = 3

	// |score| at or below the band reads as neutral.
	neutralBand = 15

	maxSentimentScore = 100
)

var bullishStrong = []string{
	"surge", "soar", "rally", "skyrocket", "all-time high",
	"breakout", "bull run", "moon", "parabolic", "dovish",
	"🚀", "📈", "💎",
}

var bullishMedium = []string{
	"gain", "rise", "jump", "climb", "bullish", "rebound",
	"recovery", "adoption", "approval", "outperform", "beat estimates",
}

var bullishWeak = []string{
	"positive", "optimis", "support", "steady", "cool", "higher",
}

var bearishStrong = []string{
	"crash", "plunge", "collapse", "dump", "meltdown",
	"bankrupt", "capitulation", "hawkish",
	"📉", "🔻", "💥",
}

var bearishMedium = []string{
	"fall", "drop", "decline", "bearish", "sell-off", "selloff",
	"fear", "hack", "lawsuit", "downgrade", "miss estimates", "recession",
}

var bearishWeak = []string{
	"dip", "slip", "pullback", "concern", "cautious", "uncertain", "lower",
}

type SentimentResult struct {
	Sentiment  domain.Sentiment
	Score      int
	Confidence float64
}

// ScoreSentiment runs the lexicon over the title plus optional description.
// Matching is case-insensitive substring over the combined text; emoji tokens
// count as strong terms like any other entry.
func ScoreSentiment(title, description string) SentimentResult {
	text := strings.ToLower(title)
	if description != "" {
		text += " " + strings.ToLower(description)
	}

	score := 0
	score += sumMatches(text, bullishStrong, weightStrong)
	score += sumMatches(text, bullishMedium, weightMedium)
	score += sumMatches(text, bullishWeak, weightWeak)
	score -= sumMatches(text, bearishStrong, weightStrong)
	score -= sumMatches(text, bearishMedium, weightMedium)
	score -= sumMatches(text, bearishWeak, weightWeak)

	if score > maxSentimentScore {
		score = maxSentimentScore
	}
	if score < -maxSentimentScore {
		score = -maxSentimentScore
	}

	sentiment := domain.SentimentNeutral
	if score > neutralBand {
		sentiment = domain.SentimentBullish
	} else if score < -neutralBand {
		sentiment = domain.SentimentBearish
	}

	confidence := float64(score) / maxSentimentScore
	if confidence < 0 {
		confidence = -confidence
	}

	return SentimentResult{Sentiment: sentiment, Score: score, Confidence: confidence}
}

func sumMatches(text string, terms []string, weight int) int {
	total := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			total += weight
		}
	}
	return total
}
