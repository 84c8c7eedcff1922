package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ezelectronics/internal/authz"
	"ezelectronics/internal/config"
	"ezelectronics/internal/db"
	"ezelectronics/internal/httpserver"
	"ezelectronics/internal/logger"
	"ezelectronics/internal/migrate"
	"ezelectronics/internal/queue"
	"ezelectronics/internal/repository"
	cartrepo "ezelectronics/internal/repository/cart"
	productrepo "ezelectronics/internal/repository/product"
	cartsvc "ezelectronics/internal/service/cart"
	productsvc "ezelectronics/internal/service/product"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions()).Named("api")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.Database.DSN, db.Options{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		log.Fatal("connect_db_failed", zap.Error(err))
	}
	defer dbpool.Close()

	if cfg.Database.AutoMigrate {
		version, err := migrate.Apply(ctx, dbpool)
		if err != nil {
			log.Fatal("migrations_failed", zap.Error(err))
		}
		log.Info("migrations_applied", zap.Uint("version", version))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis_unreachable_rate_limit_disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rdb = nil
		}
	}

	queueClient := queue.NewClient(&cfg.Queue)
	defer queueClient.Close()

	cartService := cartsvc.New(
		cartrepo.NewPostgres(dbpool),
		repository.NewTxManager(dbpool, log),
		cartsvc.WithPublisher(queueClient),
		cartsvc.WithLogger(log.Named("cart")),
	)
	productService := productsvc.New(productrepo.NewPostgres(dbpool, log))

	az, err := authz.NewService(cfg.Server.BasePath, authz.DefaultPolicies())
	if err != nil {
		log.Fatal("authz_init_failed", zap.Error(err))
	}

	srv, err := httpserver.New(cfg.Server.Addr, log, dbpool, httpserver.Deps{
		CartSvc:        cartService,
		ProductSvc:     productService,
		Authz:          az,
		Redis:          rdb,
		RateLimit:      cfg.RateLimit,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		log.Fatal("server_init_failed", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("shutdown_signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful_shutdown_failed", zap.Error(err))
	} else {
		log.Info("server_stopped")
	}
}
