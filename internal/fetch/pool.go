package fetch

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/domain"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxResponseBytes    = 2 << 20 // 2MiB
	userAgent           = "newsdesk/1.0"
)

// Pool retrieves raw provider records under per-source rate limits and a
// bounded timeout. Every failure mode is local: transport errors, non-2xx
// statuses, parse failures, and exhausted buckets all yield an empty result.
// There are no retries within a refresh cycle.
type Pool struct {
	tracer  trace.Tracer
	client  *http.Client
	limits  *limiterSet
	apiKeys map[string]string
	timeout time.Duration
}

func NewPool(tracer trace.Tracer, timeout time.Duration, apiKeys map[string]string) *Pool {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Pool{
		tracer:  tracer,
		client:  &http.Client{Timeout: timeout},
		limits:  newLimiterSet(),
		apiKeys: apiKeys,
		timeout: timeout,
	}
}

// Fetch retrieves and parses one source's payload. The returned slice is
// finite and not restartable; nil means the source contributed nothing this
// cycle.
func (p *Pool) Fetch(ctx context.Context, src domain.Source, query string) []domain.RawRecord {
	if src.Parser == nil {
		log.Printf("fetch %s: no parser configured", src.ID)
		return nil
	}
	if !p.limits.allow(src.ID, src.RateLimitPerMin) {
		log.Printf("fetch %s: rate limit exhausted, skipping", src.ID)
		return nil
	}

	ctx, span := p.tracer.Start(ctx, "fetch.source")
	span.SetAttributes(
		attribute.String("source.id", src.ID),
		attribute.String("source.transport", string(src.Transport)),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := p.buildURL(src, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("fetch %s: build request: %v", src.ID, err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)
	if src.Transport == domain.TransportFeed {
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("fetch %s: request failed: %v", src.ID, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("fetch %s: unexpected status %d", src.ID, resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Printf("fetch %s: read body: %v", src.ID, err)
		return nil
	}

	records, err := src.Parser.ParsePayload(body)
	if err != nil {
		log.Printf("fetch %s: %v", src.ID, err)
		return nil
	}
	span.SetAttributes(attribute.Int("fetch.records", len(records)))
	return records
}

func (p *Pool) buildURL(src domain.Source, query string) string {
	url := strings.ReplaceAll(src.Endpoint, "{query}", query)
	if src.NeedsKey {
		url = strings.ReplaceAll(url, "{key}", p.apiKeys[src.ID])
	}
	return url
}
