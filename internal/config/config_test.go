package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("CRYPTOCOMPARE_API_KEY", "")
	t.Setenv("NEWS_REFRESH_SECS", "")
	t.Setenv("FETCH_TIMEOUT_SECS", "")
	t.Setenv("AGGREGATE_BUDGET_SECS", "")
	t.Setenv("AI_GATEWAY_URL", "")
	t.Setenv("AI_GATEWAY_KEY", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("AI_TOP_N", "")
	t.Setenv("AI_TIMEOUT_SECS", "")
	t.Setenv("AI_MAX_TOKENS", "")
	t.Setenv("BREAKING_DETECTOR_ENABLED", "")
	t.Setenv("BREAKING_ANOMALY_THRESHOLD", "")
	t.Setenv("BREAKING_IFOREST_TREES", "")
	t.Setenv("BREAKING_IFOREST_SAMPLE_SIZE", "")
	t.Setenv("MCP_TRANSPORT", "")
	t.Setenv("MCP_HTTP_ENABLED", "")
	t.Setenv("MCP_HTTP_BIND", "")
	t.Setenv("MCP_HTTP_PORT", "")
	t.Setenv("MCP_AUTH_TOKEN", "")
	t.Setenv("MCP_REQUEST_TIMEOUT_SECS", "")
	t.Setenv("MCP_RATE_LIMIT_PER_MIN", "")

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.RefreshSecs != 300 {
		t.Fatalf("expected default refresh secs 300, got %d", cfg.RefreshSecs)
	}
	if cfg.FetchTimeoutSecs != 10 || cfg.AggregateBudgetSecs != 20 {
		t.Fatalf("unexpected fetch defaults: timeout=%d budget=%d", cfg.FetchTimeoutSecs, cfg.AggregateBudgetSecs)
	}
	if cfg.AIGatewayURL != "https://openrouter.ai/api/v1" {
		t.Fatalf("unexpected default gateway url: %s", cfg.AIGatewayURL)
	}
	if cfg.AIModel != "openai/gpt-4o-mini" || cfg.AITopN != 15 {
		t.Fatalf("unexpected AI defaults: model=%s topN=%d", cfg.AIModel, cfg.AITopN)
	}
	if cfg.AITimeoutSecs != 30 || cfg.AIMaxTokens != 4000 {
		t.Fatalf("unexpected AI call defaults: timeout=%d maxTokens=%d", cfg.AITimeoutSecs, cfg.AIMaxTokens)
	}
	if cfg.BreakingDetectorEnabled {
		t.Fatal("expected breaking detector disabled by default")
	}
	if cfg.BreakingAnomalyThresh != 0.62 || cfg.BreakingIForestTrees != 100 || cfg.BreakingIForestSample != 128 {
		t.Fatalf("unexpected breaking detector defaults: %+v", cfg)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("expected default MCP transport stdio, got %s", cfg.MCPTransport)
	}
	if cfg.MCPHTTPBind != "127.0.0.1" || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected MCP http defaults: %s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis:6380")
	t.Setenv("NEWS_REFRESH_SECS", "60")
	t.Setenv("AI_TOP_N", "5")
	t.Setenv("AI_MODEL", "anthropic/claude-sonnet")
	t.Setenv("BREAKING_DETECTOR_ENABLED", "TRUE")
	t.Setenv("MCP_TRANSPORT", "http")

	cfg := Load()
	if cfg.RedisURL != "redis:6380" {
		t.Fatalf("expected redis override, got %s", cfg.RedisURL)
	}
	if cfg.RefreshSecs != 60 || cfg.AITopN != 5 {
		t.Fatalf("unexpected overrides: refresh=%d topN=%d", cfg.RefreshSecs, cfg.AITopN)
	}
	if cfg.AIModel != "anthropic/claude-sonnet" {
		t.Fatalf("unexpected model: %s", cfg.AIModel)
	}
	if !cfg.BreakingDetectorEnabled {
		t.Fatal("expected breaking detector enabled")
	}
	if cfg.MCPTransport != "http" {
		t.Fatalf("expected http transport, got %s", cfg.MCPTransport)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("NEWS_REFRESH_SECS", "not-a-number")
	t.Setenv("AI_TOP_N", "-3")
	t.Setenv("BREAKING_ANOMALY_THRESHOLD", "1.5")

	cfg := Load()
	if cfg.RefreshSecs != 300 {
		t.Fatalf("expected default refresh secs, got %d", cfg.RefreshSecs)
	}
	if cfg.AITopN != 15 {
		t.Fatalf("expected default top N, got %d", cfg.AITopN)
	}
	if cfg.BreakingAnomalyThresh != 0.62 {
		t.Fatalf("expected default threshold, got %f", cfg.BreakingAnomalyThresh)
	}
}
