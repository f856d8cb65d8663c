package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"newsdesk/internal/aggregate"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/db"
	"newsdesk/internal/enrich"
	"newsdesk/internal/fetch"
	mcpserver "newsdesk/internal/mcp"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"
	"newsdesk/internal/source"
	"newsdesk/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

const (
	snapshotTTL = 15 * time.Minute

	defaultMCPHTTPMaxBodyBytes int64 = 1 << 20 // 1MiB
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newRegistryFunc  = source.NewRegistry
	newFlagRepoFunc  = repository.NewFlagRepository
	newEnricherFunc  = func(tracer trace.Tracer, cfg *config.Config) service.Enricher {
		return enrich.NewClient(tracer, enrich.Config{
			BaseURL:   cfg.AIGatewayURL,
			APIKey:    cfg.AIGatewayKey,
			Model:     cfg.AIModel,
			TopN:      cfg.AITopN,
			MaxTokens: int64(cfg.AIMaxTokens),
			Timeout:   time.Duration(cfg.AITimeoutSecs) * time.Second,
		})
	}
	newNewsServiceFunc = service.NewNewsService
	newMCPServerFunc   = mcpserver.NewServer
	newMCPHandlerFunc  = mcpserver.NewHTTPTransportHandler
	runStdioFunc       = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
	startHTTPServerFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFn = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := initPostgresFunc(ctx, cfg.DatabaseURL)
	redisClient := initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var flags service.FlagStore
	if pool != nil {
		flagRepo := newFlagRepoFunc(pool, tracer)
		if err := flagRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run flag migrations: %v", err)
		}
		flags = flagRepo
	}

	registry := newRegistryFunc()
	fetchPool := fetch.NewPool(tracer, time.Duration(cfg.FetchTimeoutSecs)*time.Second, map[string]string{
		"cryptocompare-news": cfg.CryptoCompareAPIKey,
	})
	aggregator := aggregate.New(tracer, registry, fetchPool).
		WithBudget(time.Duration(cfg.AggregateBudgetSecs) * time.Second)

	var enricher service.Enricher
	if strings.TrimSpace(cfg.AIGatewayKey) != "" {
		enricher = newEnricherFunc(tracer, cfg)
	}

	snapshots := cache.NewSnapshots(redisClient, snapshotTTL)
	newsService := newNewsServiceFunc(tracer, aggregator, enricher, snapshots, flags, registry)

	mcpSrv := newMCPServerFunc(tracer, newsService, registry, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	transport := strings.ToLower(strings.TrimSpace(cfg.MCPTransport))
	switch transport {
	case "", "stdio":
		if err := runStdioFunc(ctx, mcpSrv); err != nil {
			log.Fatalf("mcp stdio server failed: %v", err)
		}
	case "http":
		if err := runHTTPMode(ctx, cancel, cfg, mcpSrv); err != nil {
			log.Fatalf("mcp http server failed: %v", err)
		}
	default:
		log.Fatalf("unsupported MCP_TRANSPORT: %s", cfg.MCPTransport)
	}
}

func runHTTPMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, mcpSrv *sdkmcp.Server) error {
	if !cfg.MCPHTTPEnabled {
		return fmt.Errorf("MCP_HTTP_ENABLED must be true when MCP_TRANSPORT=http")
	}
	if strings.TrimSpace(cfg.MCPAuthToken) == "" {
		return fmt.Errorf("MCP_AUTH_TOKEN is required when MCP_TRANSPORT=http")
	}

	handler := newMCPHandlerFunc(mcpSrv, mcpserver.HTTPHandlerConfig{
		AuthToken:       cfg.MCPAuthToken,
		RateLimitPerMin: cfg.MCPRateLimitPerMin,
		MaxBodyBytes:    defaultMCPHTTPMaxBodyBytes,
	})

	addr := net.JoinHostPort(cfg.MCPHTTPBind, fmt.Sprintf("%d", cfg.MCPHTTPPort))
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Printf("mcp http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFn(srv, shutdownCtx); err != nil {
		return fmt.Errorf("mcp server forced to shutdown: %w", err)
	}
	return nil
}
