package fetch

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultPerMin = 30

// limiterSet owns one token bucket per source id. Buckets are sized by the
// descriptor's per-minute rate limit; Allow is non-blocking, so an empty
// bucket turns the fetch into a no-op until tokens refill.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLimiterSet() *limiterSet {
	return &limiterSet{limiters: make(map[string]*rate.Limiter)}
}

func (s *limiterSet) allow(sourceID string, perMin int) bool {
	if perMin <= 0 {
		perMin = defaultPerMin
	}

	s.mu.Lock()
	limiter, ok := s.limiters[sourceID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)
		s.limiters[sourceID] = limiter
	}
	s.mu.Unlock()

	return limiter.Allow()
}
