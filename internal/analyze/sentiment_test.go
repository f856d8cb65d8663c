package analyze

import (
	"testing"

	"newsdesk/internal/domain"
)

func TestScoreSentimentBullish(t *testing.T) {
	res := ScoreSentiment("Fed signals dovish stance as CPI cools", "")
	if res.Sentiment != domain.SentimentBullish {
		t.Fatalf("expected bullish, got %s (score %d)", res.Sentiment, res.Score)
	}
	if res.Score <= neutralBand {
		t.Fatalf("expected score above dead band, got %d", res.Score)
	}
	if res.Confidence != float64(res.Score)/100 {
		t.Fatalf("expected confidence %f, got %f", float64(res.Score)/100, res.Confidence)
	}
}

func TestScoreSentimentBearish(t *testing.T) {
	res := ScoreSentiment("Markets plunge as banking fear spreads", "")
	if res.Sentiment != domain.SentimentBearish {
		t.Fatalf("expected bearish, got %s (score %d)", res.Sentiment, res.Score)
	}
	if res.Score >= -neutralBand {
		t.Fatalf("expected score below -15, got %d", res.Score)
	}
	if res.Confidence <= 0 {
		t.Fatalf("expected positive confidence, got %f", res.Confidence)
	}
}

func TestScoreSentimentDeadBandIsNeutral(t *testing.T) {
	// "crash" alone is one strong term: exactly 15, inside the dead band.
	res := ScoreSentiment("BTC crashes 10%", "")
	if res.Score != -15 {
		t.Fatalf("expected score -15, got %d", res.Score)
	}
	if res.Sentiment != domain.SentimentNeutral {
		t.Fatalf("expected neutral at dead-band edge, got %s", res.Sentiment)
	}
}

func TestScoreSentimentEmojiCountsAsStrong(t *testing.T) {
	plain := ScoreSentiment("quiet session in tokyo today", "")
	if plain.Score != 0 || plain.Sentiment != domain.SentimentNeutral {
		t.Fatalf("expected neutral baseline, got %s (%d)", plain.Sentiment, plain.Score)
	}
	rocket := ScoreSentiment("quiet session in tokyo today 🚀 📈", "")
	if rocket.Score != 2*weightStrong {
		t.Fatalf("expected two strong emoji matches, got %d", rocket.Score)
	}
	if rocket.Sentiment != domain.SentimentBullish {
		t.Fatalf("expected bullish, got %s", rocket.Sentiment)
	}
}

func TestScoreSentimentUsesDescription(t *testing.T) {
	without := ScoreSentiment("Weekly market wrap", "")
	with := ScoreSentiment("Weekly market wrap", "Gold rallies to an all-time high on safe-haven surge")
	if with.Score <= without.Score {
		t.Fatalf("expected description to move the score, got %d vs %d", with.Score, without.Score)
	}
}

func TestScoreSentimentClamped(t *testing.T) {
	text := "surge soar rally skyrocket all-time high breakout bull run moon parabolic dovish 🚀 📈 💎"
	res := ScoreSentiment(text, text)
	if res.Score != 100 {
		t.Fatalf("expected clamp at 100, got %d", res.Score)
	}
	if res.Confidence != 1 {
		t.Fatalf("expected confidence 1, got %f", res.Confidence)
	}
}

func TestExtractTickersDollarPattern(t *testing.T) {
	got := ExtractTickers("$BTC and $NVDA rip higher while $eth stays flat")
	if len(got) < 2 || got[0] != "BTC" || got[1] != "NVDA" {
		t.Fatalf("unexpected tickers: %v", got)
	}
	for _, sym := range got {
		if sym == "ETH" {
			return
		}
	}
	// lowercase $eth must not match the $-pattern but ETH appears via the
	// curated list (substring of the uppercased text).
	t.Fatalf("expected curated ETH match, got %v", got)
}

func TestExtractTickersCuratedList(t *testing.T) {
	got := ExtractTickers("EURUSD slides while XAUUSD holds above 2400")
	want := map[string]bool{"EURUSD": true, "XAUUSD": true}
	for _, sym := range got {
		delete(want, sym)
	}
	if len(want) != 0 {
		t.Fatalf("missing curated symbols %v in %v", want, got)
	}
}

func TestExtractTickersDedupAndCap(t *testing.T) {
	got := ExtractTickers("$BTC $BTC $ETH $SOL $XRP $DOGE $ADA BTC ETH")
	if len(got) != 5 {
		t.Fatalf("expected cap at 5, got %d: %v", len(got), got)
	}
	seen := make(map[string]bool)
	for _, sym := range got {
		if seen[sym] {
			t.Fatalf("duplicate symbol %s in %v", sym, got)
		}
		seen[sym] = true
	}
}

func TestExtractTickersEmptyText(t *testing.T) {
	if got := ExtractTickers(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
