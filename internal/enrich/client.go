// Package enrich sends the highest-impact headlines to an OpenAI-compatible
// gateway and merges the returned analyses back into the stream.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/domain"
	"newsdesk/internal/score"
)

var (
	// ErrRateLimited is returned when the gateway rejects the request with
	// a 429. The caller may retry the next cycle.
	ErrRateLimited = errors.New("enrich: gateway rate limited")
	// ErrCreditsExhausted is returned on a 402. The caller should stop
	// sending enrichment requests until the account is topped up.
	ErrCreditsExhausted = errors.New("enrich: gateway credits exhausted")
)

// maxPromptDescRunes caps the description sent per headline.
const maxPromptDescRunes = 300

const systemPrompt = `You are a markets analyst for a trading terminal. For each numbered headline, produce a JSON analysis. Respond with a single JSON object of the form:
{"analyses":[{"id":"<headline id>","sentiment":"bullish|bearish|neutral","confidence":0.0,"impact":"critical|high|medium|low","time_horizon":"immediate|short|medium|long","summary":"one sentence","key_points":["..."],"tickers":["BTC"],"signal":{"action":"buy|sell|hold|watch","strength":0,"assets":["BTC"],"direction":"long|short","timeframe":"...","reasoning":"...","risk":"low|medium|high"}}]}
Signal strength is an integer from 0 to 100.
Only include headlines you can assess. No markdown fences.`

// Client talks to the AI gateway over the OpenAI chat-completions surface.
type Client struct {
	api       openai.Client
	model     string
	topN      int
	maxTokens int64
	timeout   time.Duration
	tracer    trace.Tracer
	now       func() time.Time
}

// Config carries the gateway settings, normally taken from config.Load.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	TopN      int
	MaxTokens int64
	Timeout   time.Duration
}

func NewClient(tracer trace.Tracer, cfg Config) *Client {
	if cfg.TopN <= 0 {
		cfg.TopN = 15
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	api := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)
	return &Client{
		api:       api,
		model:     cfg.Model,
		topN:      cfg.TopN,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		tracer:    tracer,
		now:       time.Now,
	}
}

// WithClock overrides the clock used for re-scoring. Tests use it.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Enrich sends the top items by impact score to the gateway and merges the
// analyses it returns. Items without an analysis pass through unchanged, as
// does the whole stream when the gateway response is unusable. credibility
// maps source id to its credibility weight for re-scoring.
func (c *Client) Enrich(ctx context.Context, items []domain.Item, credibility map[string]int) ([]domain.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	ctx, span := c.tracer.Start(ctx, "enrich.Enrich")
	defer span.End()

	batch := items
	if len(batch) > c.topN {
		batch = batch[:c.topN]
	}
	span.SetAttributes(attribute.Int("enrich.batch_size", len(batch)))

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(batch)),
		},
		MaxTokens:   openai.Int(c.maxTokens),
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return items, mapGatewayError(err)
	}
	if len(resp.Choices) == 0 {
		return items, fmt.Errorf("enrich: gateway returned no choices")
	}

	analyses, err := parseAnalyses(resp.Choices[0].Message.Content)
	if err != nil {
		return items, err
	}
	merged := mergeAnalyses(items, analyses, credibility, c.now())
	span.SetAttributes(attribute.Int("enrich.analyses", len(analyses)))
	return merged, nil
}

func buildPrompt(batch []domain.Item) string {
	var b strings.Builder
	b.WriteString("Headlines:\n")
	for i, item := range batch {
		fmt.Fprintf(&b, "%d. id=%s [%s] %s", i+1, item.ID, item.SourceName, item.Title)
		if item.Description != "" {
			fmt.Fprintf(&b, ": %s", truncateRunes(item.Description, maxPromptDescRunes))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// truncateRunes cuts on a rune boundary so multi-byte text stays valid UTF-8.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func mapGatewayError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429:
			return ErrRateLimited
		case 402:
			return ErrCreditsExhausted
		}
	}
	return fmt.Errorf("enrich: gateway request: %w", err)
}

type analysisPayload struct {
	Analyses []itemAnalysis `json:"analyses"`
}

type itemAnalysis struct {
	ID          string   `json:"id"`
	Sentiment   string   `json:"sentiment"`
	Confidence  float64  `json:"confidence"`
	Impact      string   `json:"impact"`
	TimeHorizon string   `json:"time_horizon"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	Tickers     []string `json:"tickers"`
	Signal      *struct {
		Action    string   `json:"action"`
		Strength  int      `json:"strength"`
		Assets    []string `json:"assets"`
		Direction string   `json:"direction"`
		Timeframe string   `json:"timeframe"`
		Reasoning string   `json:"reasoning"`
		Risk      string   `json:"risk"`
	} `json:"signal"`
}

// parseAnalyses extracts the first balanced JSON object from the completion
// text. Models routinely wrap the payload in prose or code fences, so the
// raw text is scanned rather than unmarshalled directly.
func parseAnalyses(content string) ([]itemAnalysis, error) {
	raw, ok := extractJSONObject(content)
	if !ok {
		return nil, fmt.Errorf("enrich: no JSON object in gateway response")
	}
	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("enrich: decode gateway response: %w", err)
	}
	return payload.Analyses, nil
}

func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func mergeAnalyses(items []domain.Item, analyses []itemAnalysis, credibility map[string]int, now time.Time) []domain.Item {
	byID := make(map[string]itemAnalysis, len(analyses))
	for _, a := range analyses {
		if a.ID == "" {
			continue
		}
		byID[a.ID] = a
	}

	out := make([]domain.Item, len(items))
	copy(out, items)
	for i := range out {
		a, ok := byID[out[i].ID]
		if !ok {
			continue
		}
		ai, ok := toDomain(a)
		if !ok {
			log.Printf("enrich: dropping malformed analysis for %s", out[i].ID)
			continue
		}
		out[i].AI = ai
		out[i].RelatedTickers = unionTickers(out[i].RelatedTickers, a.Tickers)
		score.Apply(&out[i], credibility[out[i].SourceID], now)
	}
	return out
}

func toDomain(a itemAnalysis) (*domain.AIAnalysis, bool) {
	sentiment := domain.Sentiment(a.Sentiment)
	impact := domain.Impact(a.Impact)
	horizon := domain.TimeHorizon(a.TimeHorizon)
	if !sentiment.IsValid() || !impact.IsValid() || !horizon.IsValid() {
		return nil, false
	}
	ai := &domain.AIAnalysis{
		Sentiment:   sentiment,
		Confidence:  clamp01(a.Confidence),
		Impact:      impact,
		TimeHorizon: horizon,
		Summary:     a.Summary,
		KeyPoints:   a.KeyPoints,
	}
	if a.Signal != nil && a.Signal.Action != "" {
		strength := a.Signal.Strength
		if strength < 0 {
			strength = 0
		}
		if strength > 100 {
			strength = 100
		}
		ai.Signal = &domain.TradingSignal{
			Action:    a.Signal.Action,
			Strength:  strength,
			Assets:    a.Signal.Assets,
			Direction: a.Signal.Direction,
			Timeframe: a.Signal.Timeframe,
			Reasoning: a.Signal.Reasoning,
			Risk:      a.Signal.Risk,
		}
	}
	return ai, true
}

func unionTickers(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	out := existing
	for _, t := range existing {
		seen[t] = true
	}
	for _, t := range extra {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
