package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string

	CryptoCompareAPIKey string
	RefreshSecs         int
	FetchTimeoutSecs    int
	AggregateBudgetSecs int

	AIGatewayURL  string
	AIGatewayKey  string
	AIModel       string
	AITopN        int
	AITimeoutSecs int
	AIMaxTokens   int

	BreakingDetectorEnabled bool
	BreakingAnomalyThresh   float64
	BreakingIForestTrees    int
	BreakingIForestSample   int

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		CryptoCompareAPIKey: os.Getenv("CRYPTOCOMPARE_API_KEY"),
		AIGatewayKey:        os.Getenv("AI_GATEWAY_KEY"),
		MCPAuthToken:        os.Getenv("MCP_AUTH_TOKEN"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, user flags will not persist")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.AIGatewayKey == "" {
		log.Println("Warning: AI_GATEWAY_KEY not set, enrichment will be disabled")
	}

	cfg.RefreshSecs = 300
	if v := strings.TrimSpace(os.Getenv("NEWS_REFRESH_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshSecs = n
		}
	}

	cfg.FetchTimeoutSecs = 10
	if v := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchTimeoutSecs = n
		}
	}

	cfg.AggregateBudgetSecs = 20
	if v := strings.TrimSpace(os.Getenv("AGGREGATE_BUDGET_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AggregateBudgetSecs = n
		}
	}

	cfg.AIGatewayURL = strings.TrimSpace(os.Getenv("AI_GATEWAY_URL"))
	if cfg.AIGatewayURL == "" {
		cfg.AIGatewayURL = "https://openrouter.ai/api/v1"
	}

	cfg.AIModel = strings.TrimSpace(os.Getenv("AI_MODEL"))
	if cfg.AIModel == "" {
		cfg.AIModel = "openai/gpt-4o-mini"
	}

	cfg.AITopN = 15
	if v := strings.TrimSpace(os.Getenv("AI_TOP_N")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AITopN = n
		}
	}

	cfg.AITimeoutSecs = 30
	if v := strings.TrimSpace(os.Getenv("AI_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AITimeoutSecs = n
		}
	}

	cfg.AIMaxTokens = 4000
	if v := strings.TrimSpace(os.Getenv("AI_MAX_TOKENS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AIMaxTokens = n
		}
	}

	cfg.BreakingDetectorEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("BREAKING_DETECTOR_ENABLED")), "true")

	cfg.BreakingAnomalyThresh = 0.62
	if v := strings.TrimSpace(os.Getenv("BREAKING_ANOMALY_THRESHOLD")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 && n < 1 {
			cfg.BreakingAnomalyThresh = n
		}
	}

	cfg.BreakingIForestTrees = 100
	if v := strings.TrimSpace(os.Getenv("BREAKING_IFOREST_TREES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BreakingIForestTrees = n
		}
	}

	cfg.BreakingIForestSample = 128
	if v := strings.TrimSpace(os.Getenv("BREAKING_IFOREST_SAMPLE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BreakingIForestSample = n
		}
	}

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}

	cfg.MCPHTTPPort = 8090
	if v := strings.TrimSpace(os.Getenv("MCP_HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPHTTPPort = n
		}
	}

	cfg.MCPRequestTimeoutSecs = 5
	if v := strings.TrimSpace(os.Getenv("MCP_REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRequestTimeoutSecs = n
		}
	}

	cfg.MCPRateLimitPerMin = 60
	if v := strings.TrimSpace(os.Getenv("MCP_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MCPRateLimitPerMin = n
		}
	}

	return cfg
}
