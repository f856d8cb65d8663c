package source

import (
	"sort"
	"sync"

	"newsdesk/internal/domain"
	"newsdesk/internal/fetch"
)

// Registry holds the fixed provider catalogue. Descriptors never change at
// runtime except for the enabled flag.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	sources map[string]*domain.Source
}

func NewRegistry() *Registry {
	return NewRegistryWith(defaultCatalogue())
}

func NewRegistryWith(sources []domain.Source) *Registry {
	r := &Registry{sources: make(map[string]*domain.Source, len(sources))}
	for i := range sources {
		s := sources[i]
		if _, ok := r.sources[s.ID]; ok {
			continue
		}
		r.order = append(r.order, s.ID)
		r.sources[s.ID] = &s
	}
	return r
}

func (r *Registry) All() []domain.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Source, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.sources[id])
	}
	return out
}

func (r *Registry) Enabled() []domain.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Source, 0, len(r.order))
	for _, id := range r.order {
		if s := r.sources[id]; s.Enabled {
			out = append(out, *s)
		}
	}
	return out
}

func (r *Registry) ByID(id string) (domain.Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sources[id]
	if !ok {
		return domain.Source{}, false
	}
	return *s, true
}

// ByCategory returns the enabled sources for a category, highest priority
// first. The "all" category is the union of every enabled source.
func (r *Registry) ByCategory(category string) []domain.Source {
	enabled := r.Enabled()

	out := make([]domain.Source, 0, len(enabled))
	for _, s := range enabled {
		if category == domain.CategoryAll || s.HasCategory(category) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

func (r *Registry) SetEnabled(id string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sources[id]
	if !ok {
		return false
	}
	s.Enabled = enabled
	return true
}

// Credibility weights encode editorial standing: exchange-adjacent wires at
// the top of the range, community boards near the bottom.
func defaultCatalogue() []domain.Source {
	return []domain.Source{
		{
			ID:              "cryptocompare-news",
			Name:            "CryptoCompare News",
			Transport:       domain.TransportJSONAPI,
			Endpoint:        "https://min-api.cryptocompare.com/data/v2/news/?lang=EN&api_key={key}",
			NeedsKey:        true,
			RateLimitPerMin: 30,
			Priority:        1,
			Categories:      []string{domain.CategoryCrypto},
			Enabled:         true,
			Credibility:     16,
			Parser:          fetch.NewswireParser{},
		},
		{
			ID:              "coindesk",
			Name:            "CoinDesk",
			Transport:       domain.TransportFeed,
			Endpoint:        "https://www.coindesk.com/arc/outboundfeeds/rss/",
			RateLimitPerMin: 10,
			Priority:        1,
			Categories:      []string{domain.CategoryCrypto},
			Enabled:         true,
			Credibility:     15,
			Parser:          fetch.FeedParser{},
		},
		{
			ID:              "cointelegraph",
			Name:            "Cointelegraph",
			Transport:       domain.TransportFeed,
			Endpoint:        "https://cointelegraph.com/rss",
			RateLimitPerMin: 10,
			Priority:        2,
			Categories:      []string{domain.CategoryCrypto},
			Enabled:         true,
			Credibility:     14,
			Parser:          fetch.FeedParser{},
		},
		{
			ID:              "marketwatch",
			Name:            "MarketWatch Top Stories",
			Transport:       domain.TransportFeed,
			Endpoint:        "https://feeds.content.dowjones.io/public/rss/mw_topstories",
			RateLimitPerMin: 10,
			Priority:        1,
			Categories:      []string{domain.CategoryStocks},
			Enabled:         true,
			Credibility:     17,
			Parser:          fetch.FeedParser{},
		},
		{
			ID:              "fxstreet",
			Name:            "FXStreet",
			Transport:       domain.TransportFeed,
			Endpoint:        "https://www.fxstreet.com/rss/news",
			RateLimitPerMin: 10,
			Priority:        1,
			Categories:      []string{domain.CategoryForex},
			Enabled:         true,
			Credibility:     14,
			Parser:          fetch.FeedParser{},
		},
		{
			ID:              "kitco",
			Name:            "Kitco News",
			Transport:       domain.TransportFeed,
			Endpoint:        "https://www.kitco.com/rss/category/commentaries.xml",
			RateLimitPerMin: 10,
			Priority:        1,
			Categories:      []string{domain.CategoryGold, domain.CategoryCommodities},
			Enabled:         true,
			Credibility:     14,
			Parser:          fetch.FeedParser{},
		},
		{
			ID:              "mining-dot-com",
			Name:            "Mining.com",
			Transport:       domain.TransportFeed,
			Endpoint:        "https://www.mining.com/feed/",
			RateLimitPerMin: 10,
			Priority:        2,
			Categories:      []string{domain.CategoryCommodities, domain.CategoryGold},
			Enabled:         true,
			Credibility:     12,
			Parser:          fetch.FeedParser{},
		},
		{
			ID:              "hn-markets",
			Name:            "Hacker News Markets",
			Transport:       domain.TransportJSONAPI,
			Endpoint:        "https://hn.algolia.com/api/v1/search_by_date?tags=story&query={query}",
			RateLimitPerMin: 20,
			Priority:        3,
			Categories:      []string{domain.CategoryTech, domain.CategoryCommunity},
			Enabled:         true,
			Credibility:     10,
			Parser:          fetch.HackerStoryParser{},
		},
		{
			ID:              "reddit-cryptocurrency",
			Name:            "r/CryptoCurrency",
			Transport:       domain.TransportJSONAPI,
			Endpoint:        "https://www.reddit.com/r/CryptoCurrency/hot.json?limit=25",
			RateLimitPerMin: 10,
			Priority:        4,
			Categories:      []string{domain.CategoryCrypto, domain.CategoryCommunity},
			Enabled:         true,
			Credibility:     8,
			Parser:          fetch.CommunityParser{},
		},
		{
			ID:              "reddit-forex",
			Name:            "r/Forex",
			Transport:       domain.TransportJSONAPI,
			Endpoint:        "https://www.reddit.com/r/Forex/hot.json?limit=25",
			RateLimitPerMin: 10,
			Priority:        4,
			Categories:      []string{domain.CategoryForex, domain.CategoryCommunity},
			Enabled:         true,
			Credibility:     7,
			Parser:          fetch.CommunityParser{},
		},
		{
			ID:              "reddit-stocks",
			Name:            "r/stocks",
			Transport:       domain.TransportJSONAPI,
			Endpoint:        "https://www.reddit.com/r/stocks/hot.json?limit=25",
			RateLimitPerMin: 10,
			Priority:        4,
			Categories:      []string{domain.CategoryStocks, domain.CategoryCommunity},
			Enabled:         true,
			Credibility:     7,
			Parser:          fetch.CommunityParser{},
		},
		{
			ID:              "reddit-wallstreetbets",
			Name:            "r/wallstreetbets",
			Transport:       domain.TransportJSONAPI,
			Endpoint:        "https://www.reddit.com/r/wallstreetbets/hot.json?limit=25",
			RateLimitPerMin: 10,
			Priority:        5,
			Categories:      []string{domain.CategoryStocks, domain.CategoryCommunity},
			Enabled:         true,
			Credibility:     6,
			Parser:          fetch.CommunityParser{},
		},
	}
}
