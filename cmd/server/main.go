package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinv "github.com/stockyard/backend/internal/application/inventory"
	applog "github.com/stockyard/backend/internal/application/logistics"
	"github.com/stockyard/backend/internal/infrastructure/cache"
	"github.com/stockyard/backend/internal/infrastructure/config"
	"github.com/stockyard/backend/internal/infrastructure/event"
	"github.com/stockyard/backend/internal/infrastructure/logger"
	"github.com/stockyard/backend/internal/infrastructure/persistence"
	"github.com/stockyard/backend/internal/interfaces/http/handler"
	"github.com/stockyard/backend/internal/interfaces/http/middleware"
	"github.com/stockyard/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := persistence.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	// Repositories outside any transaction scope, for reads and
	// catalog writes.
	itemRepo := persistence.NewItemRepository(db)
	locationRepo := persistence.NewLocationRepository(db)
	supplierRepo := persistence.NewSupplierRepository(db)
	vehicleRepo := persistence.NewVehicleRepository(db)
	driverRepo := persistence.NewDriverRepository(db)
	batchRepo := persistence.NewStockBatchRepository(db)
	txRepo := persistence.NewStockTransactionRepository(db)

	bus := event.NewInMemoryBus(log)

	var summaryCache *cache.SummaryCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		summaryCache = cache.NewSummaryCache(redisClient, log)
		bus.Subscribe(cache.NewInvalidationHandler(summaryCache))
	}

	inventoryScope := persistence.NewInventoryTransactionScope(db)
	logisticsScope := persistence.NewLogisticsTransactionScope(db)

	ledgerService := appinv.NewLedgerService(
		inventoryScope, locationRepo, itemRepo, bus, log, cfg.Inventory.UndoWindow)
	queryService := appinv.NewQueryService(batchRepo, txRepo, itemRepo, locationRepo, log)

	tripService := applog.NewTripService(logisticsScope, bus, log)
	deliveryService := applog.NewDeliveryService(logisticsScope, bus, log)
	requestService := applog.NewStockRequestService(logisticsScope, log)

	// Delivery outcomes drive stock request progress through the bus.
	bus.Subscribe(applog.NewRequestProgressHandler(logisticsScope, log))

	gin.SetMode(cfg.Server.Mode)
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.GinRecovery(log),
		middleware.CORSWithConfig(middleware.DefaultCORSConfig()),
		middleware.BodyLimit(cfg.Server.BodyLimitBytes),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var summaryViews handler.SummaryViewCache
	if summaryCache != nil {
		summaryViews = summaryCache
	}

	router.NewRouter(engine).
		Register(handler.NewInventoryHandler(ledgerService, queryService, summaryViews, cfg.Inventory.ExpiryHorizon)).
		Register(handler.NewTripHandler(tripService)).
		Register(handler.NewDeliveryHandler(deliveryService)).
		Register(handler.NewStockRequestHandler(requestService)).
		Register(handler.NewCatalogHandler(itemRepo, locationRepo, supplierRepo, vehicleRepo, driverRepo)).
		Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
