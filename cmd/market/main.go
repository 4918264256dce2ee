package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/market/gateway"
	"github.com/example/market/pkg/audit"
	"github.com/example/market/pkg/cart"
	"github.com/example/market/pkg/catalog"
	"github.com/example/market/pkg/checkout"
	"github.com/example/market/pkg/config"
	"github.com/example/market/pkg/discovery"
	"github.com/example/market/pkg/logging"
	"github.com/example/market/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load("config/market.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting market service",
		zap.String("name", cfg.Server.Name),
		zap.String("address", cfg.Server.Addr()))

	cat, err := catalog.Build(cfg.Catalog)
	if err != nil {
		logger.Fatal("Failed to generate catalog", zap.Error(err))
	}
	logger.Info("Catalog generated",
		zap.Int("products", cat.Len()),
		zap.Int("categories", len(cat.Categories())),
		zap.Uint64("seed", cfg.Catalog.Seed))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	carts := cart.NewStore(cat, cart.Options{
		Currency: cfg.Catalog.Currency,
		TTL:      cfg.Cart.TTL,
		Logger:   logger,
	})
	go carts.RunJanitor(ctx, cfg.Cart.SweepInterval)

	// Order ids restart on every boot; mirrored and audited orders are keyed by this id.
	instanceID := uuid.NewString()
	logger.Info("Instance id assigned", zap.String("instance", instanceID))

	checkoutOpts := checkout.Options{
		Instance:    instanceID,
		ConsumeCart: cfg.Checkout.ConsumeCart,
		Logger:      logger,
	}
	deps := gateway.Deps{Catalog: cat, Carts: carts}

	// Optional Redis order mirror
	if cfg.Redis.Enabled {
		redisRepo := repository.NewRedisRepository(&cfg.Redis)
		defer redisRepo.Close()
		if err := redisRepo.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed", zap.Error(err))
		} else {
			logger.Info("Redis connected successfully")
		}
		checkoutOpts.Mirror = redisRepo
	}

	// Optional MongoDB audit log
	var dispatcher *audit.Dispatcher
	if cfg.MongoDB.Enabled {
		mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			logger.Warn("MongoDB unavailable, audit log disabled", zap.Error(err))
		} else {
			defer mongoRepo.Close(context.Background())
			if err := mongoRepo.EnsureIndexes(ctx); err != nil {
				logger.Warn("MongoDB index setup failed", zap.Error(err))
			}
			dispatcher, err = audit.NewDispatcher(mongoRepo, audit.Options{Service: cfg.Server.Name, Logger: logger})
			if err != nil {
				logger.Fatal("Failed to start audit dispatcher", zap.Error(err))
			}
			checkoutOpts.Publisher = dispatcher
			deps.AuditLogs = mongoRepo
		}
	}

	orders := checkout.NewOrderStore()
	deps.Checkout = checkout.NewService(carts, orders, checkoutOpts)

	gin.SetMode(gin.ReleaseMode)
	gw := gateway.NewGateway(cfg, logger, deps)
	gw.SetupRoutes()
	srv := gw.Server()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Optional etcd registration
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
		URL:  cfg.Server.PublicURL,
	}
	var sd *discovery.ServiceDiscovery
	if cfg.Etcd.Enabled {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, logger)
		if err != nil {
			logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else if err := sd.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		} else {
			logger.Info("Service registered in etcd", zap.String("key", instance.Key(cfg.Etcd.Prefix)))
		}
	}

	logger.Info("Market service started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	cancel()

	if dispatcher != nil {
		if err := dispatcher.Close(); err != nil {
			logger.Error("Failed to flush audit log", zap.Error(err))
		}
	}

	logger.Info("Market service stopped",
		zap.Int("carts", carts.Len()),
		zap.Int("orders", orders.Len()))
}
