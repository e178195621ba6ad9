package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/shariahscreen/shariahscreen/internal/api"
	v1 "github.com/shariahscreen/shariahscreen/internal/api/v1"
	"github.com/shariahscreen/shariahscreen/internal/auth"
	"github.com/shariahscreen/shariahscreen/internal/cache"
	"github.com/shariahscreen/shariahscreen/internal/config"
	"github.com/shariahscreen/shariahscreen/internal/locks"
	"github.com/shariahscreen/shariahscreen/internal/logger"
	redisClient "github.com/shariahscreen/shariahscreen/internal/redis"
	"github.com/shariahscreen/shariahscreen/internal/repository/memory"
	"github.com/shariahscreen/shariahscreen/internal/service"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.GetLogger().Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		logger.GetLogger().Fatalf("Failed to create logger: %v", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			log.Errorw("Failed to initialize sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	var client *redisClient.Client
	if cfg.Cache.Type == string(cache.CacheTypeRedis) {
		client, err = redisClient.NewClient(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
	}
	cacheClient := cache.Initialize(cfg, log, client)

	params := service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		Cache:            cacheClient,
		Locker:           locks.NewManager(),
		SnapshotRepo:     memory.NewRatioSnapshotStore(),
		SubscriptionRepo: memory.NewSubscriptionStore(),
		WatchlistRepo:    memory.NewWatchlistStore(),
	}

	screeningService := service.NewScreeningService(params)
	subscriptionService := service.NewSubscriptionService(params)
	pricingService := service.NewPricingService(params)
	watchlistService := service.NewWatchlistService(params)

	handlers := api.Handlers{
		Screening:    v1.NewScreeningHandler(screeningService, log),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, pricingService, log),
		Watchlist:    v1.NewWatchlistHandler(watchlistService, log),
	}

	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(handlers, cfg, log, auth.NewHeaderAuthenticator())

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Infow("Starting server", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Forced shutdown", "error", err)
	}
}
