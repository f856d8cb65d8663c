package analyze

import (
	"regexp"
	"strings"
)

const maxTickers = 5

var dollarTickerRe = regexp.MustCompile(`\$([A-Z]{2,5})\b`)

// Majors matched against the text even without a $ prefix.
var curatedAssets = []string{
	"BTC", "ETH", "SOL", "XRP", "DOGE", "ADA", "DOT", "AVAX", "MATIC", "LINK",
	"XAUUSD", "XAGUSD", "EURUSD", "GBPUSD", "USDJPY",
	"DXY", "SPX", "NDX", "DJI", "VIX",
}

// ExtractTickers pulls $-prefixed symbols first, then curated majors by
// substring, deduplicated and capped at five.
func ExtractTickers(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})

	add := func(sym string) {
		if len(out) >= maxTickers {
			return
		}
		if _, ok := seen[sym]; ok {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}

	for _, m := range dollarTickerRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	upper := strings.ToUpper(text)
	for _, sym := range curatedAssets {
		if strings.Contains(upper, sym) {
			add(sym)
		}
	}

	return out
}
