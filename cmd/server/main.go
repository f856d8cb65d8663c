package main

import (
	"context"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"newsdesk/internal/aggregate"
	"newsdesk/internal/bot"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/db"
	"newsdesk/internal/enrich"
	"newsdesk/internal/fetch"
	"newsdesk/internal/handler"
	"newsdesk/internal/job"
	"newsdesk/internal/ml/breaking"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"
	"newsdesk/internal/source"
	"newsdesk/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "newsdesk/docs"
)

const snapshotTTL = 15 * time.Minute

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
	newNewsServiceFunc     = service.NewNewsService
	newHandlerFunc         = handler.New
	newHubFunc             = handler.NewHub
	startTelegramBotFunc   = bot.StartTelegramBot
	newRefreshPollerFunc   = job.NewRefreshPoller
	startPollerFunc        = func(p *job.RefreshPoller, ctx context.Context) { go p.Start(ctx) }
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Newsdesk API
// @version         1.0
// @description     Multi-source market news aggregation with impact scoring and AI enrichment.

// @host      localhost:8080
// @BasePath  /
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
	if cfg.BreakingDetectorEnabled {
		aggregator.WithDetector(breaking.New(breaking.Config{
			Threshold:  cfg.BreakingAnomalyThresh,
			NumTrees:   cfg.BreakingIForestTrees,
			SampleSize: cfg.BreakingIForestSample,
		}))
	}

	var enricher service.Enricher
	if strings.TrimSpace(cfg.AIGatewayKey) != "" {
		enricher = newEnricherFunc(tracer, cfg)
	}

	snapshots := cache.NewSnapshots(redisClient, snapshotTTL)
	newsService := newNewsServiceFunc(tracer, aggregator, enricher, snapshots, flags, registry)

	hub := newHubFunc()
	h := newHandlerFunc(tracer, newsService, hub)

	dispatcher := startTelegramBotFunc(cfg.TelegramBotToken, newsService)

	poller := newRefreshPollerFunc(tracer, newsService, hub, dispatcher, time.Duration(cfg.RefreshSecs)*time.Second)
	startPollerFunc(poller, ctx)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("newsdesk"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    httpAddrFromEnv(),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

func httpAddrFromEnv() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
