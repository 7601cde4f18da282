package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/api"
	"github.com/archimedes-labs/archimedes-backend/internal/config"
	"github.com/archimedes-labs/archimedes-backend/internal/jobs"
	"github.com/archimedes-labs/archimedes-backend/internal/log"
	"github.com/archimedes-labs/archimedes-backend/internal/markets"
	"github.com/archimedes-labs/archimedes-backend/internal/metrics"
	pricemock "github.com/archimedes-labs/archimedes-backend/internal/prices/mock"
	"github.com/archimedes-labs/archimedes-backend/internal/store"
	"github.com/archimedes-labs/archimedes-backend/internal/watchlists"
	"github.com/archimedes-labs/archimedes-backend/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting Archimedes API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"storage", cfg.Storage.Backend,
	)

	// Setup metrics
	metricsObj, metricsHandler, err := metrics.Setup(config.ServiceName)
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Setup market catalog
	marketsSvc, err := markets.NewService()
	if err != nil {
		logger.Fatalw("Failed to load market catalog", "error", err)
	}

	// Setup watchlist store
	var watchlistStore watchlists.Store
	switch cfg.Storage.Backend {
	case "postgres":
		watchlistStore, err = watchlists.NewPostgresStore(ctx, cfg.Storage.PostgresDSN, logger)
		if err != nil {
			logger.Fatalw("Failed to connect to postgres", "error", err)
		}
	default:
		watchlistStore = watchlists.NewMemoryStore()
	}
	defer watchlistStore.Close()
	logger.Infow("Watchlist store initialized", "backend", cfg.Storage.Backend)

	// Setup Redis cache (falls back to in-memory when unreachable)
	cache, err := store.NewCache(cfg.Cache.RedisAddr, logger, metricsObj)
	if err != nil {
		logger.Fatalw("Failed to setup cache", "error", err)
	}
	defer cache.Close()

	if err := cache.Ping(ctx); err != nil {
		logger.Fatalw("Cache ping failed", "error", err)
	}
	logger.Infow("Cache connection established", "inMemory", cache.IsInMemoryMode())

	// Setup enrichment
	priceCache := watchlists.NewPriceCache(cfg.Prices.CacheTTL)
	enricher := watchlists.NewEnricher(marketsSvc, priceCache, logger)

	marketIDs := make([]string, 0)
	basePrices := make(map[string]float64)
	for _, m := range marketsSvc.ListMarkets() {
		marketIDs = append(marketIDs, m.ID)
		basePrices[m.ID] = markets.MockPrice(m.ID)
	}

	// Setup WebSocket hub
	wsHub := ws.NewHub(cache, marketIDs, cfg.Security.CORSAllowedOrigins, logger, metricsObj)

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()

	go wsHub.Run(hubCtx)

	// Setup and start the live price publisher
	priceSource := pricemock.New(logger, basePrices, cfg.Prices.PublishInterval, cfg.Prices.MockVolatility)
	pricePublisher := jobs.NewPricePublisher(priceSource, marketIDs, cache, logger, jobs.DefaultPricePublisherConfig())
	go func() {
		if err := pricePublisher.Start(hubCtx); err != nil && err != context.Canceled {
			logger.Errorw("Price publisher error", "error", err)
		}
	}()

	// Setup API handler and middleware
	handler := api.NewHandler(marketsSvc, watchlistStore, enricher, wsHub, cache, cfg, logger)
	middleware := api.NewMiddleware(logger, metricsObj)

	router := handler.Routes(middleware, cfg.Security.CORSAllowedOrigins, cfg.Security.RateLimitRPM)

	logger.Infow("CORS configured", "allowed_origins", cfg.Security.CORSAllowedOrigins)

	// Add metrics endpoint
	router.Handle("/metrics", metricsHandler)

	// Setup HTTP server
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatalw("Server startup failed", "error", err)
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		pricePublisher.Stop()

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		logger.Infow("Server stopped")
	}
}
