package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/app"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/clock"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/config"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/notify"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/observability"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/storage/postgres"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/storage/redcache"
	transporthttp "github.com/Mcbuzzerr/RetroGamesAPI/internal/transport/http"
	"github.com/Mcbuzzerr/RetroGamesAPI/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownTracing, err := observability.SetupTracing(startupCtx, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("setup tracing", zap.Error(err))
	}

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		logger.Warn("redis unreachable, catalog cache degraded", zap.Error(err))
	}

	kafkaWriter := notify.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() { _ = kafkaWriter.Close() }()
	notifier := notify.NewKafkaEmitter(kafkaWriter, logger.Named("notify"))

	tradeRepo := postgres.NewTradeRepository(pool)
	var tradeOpts []app.TradeServiceOption
	if cfg.StrictTransfer {
		tradeOpts = append(tradeOpts, app.WithStrictTransfer())
	}
	tradeSvc := app.NewTradeService(tradeRepo, notifier, clock.NewSystem(), tradeOpts...)

	catalogRepo := postgres.NewCatalogRepository(pool)
	catalog := redcache.NewCatalogCache(redisClient, catalogRepo, logger.Named("cache"))
	inventoryRepo := postgres.NewInventoryRepository(pool)
	inventorySvc := app.NewInventoryService(inventoryRepo, catalog, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/trades", transporthttp.WithCaller(transporthttp.HandleTrades(tradeSvc)))
	mux.Handle("/trades/", transporthttp.WithCaller(transporthttp.HandleTradeByID(tradeSvc)))
	mux.Handle("/inventory", transporthttp.WithCaller(transporthttp.HandleInventory(inventorySvc)))
	mux.Handle("/inventory/", transporthttp.WithCaller(transporthttp.HandleInventoryItem(inventorySvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(
		transporthttp.CORS(cfg.CORSOrigins, transporthttp.Traced(mux)),
		logger.Named("http"),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
