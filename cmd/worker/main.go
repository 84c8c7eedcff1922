package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ezelectronics/internal/config"
	"ezelectronics/internal/db"
	"ezelectronics/internal/logger"
	cartrepo "ezelectronics/internal/repository/cart"
	"ezelectronics/internal/worker"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions()).Named("worker")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Database.DSN, db.Options{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		log.Fatal("connect_db_failed", zap.Error(err))
	}
	defer pool.Close()

	consumer := worker.NewConsumer(cartrepo.NewPostgres(pool), log)
	svc, err := worker.NewService(&cfg.Queue, consumer)
	if err != nil {
		log.Fatal("worker_init_failed", zap.Error(err))
	}

	log.Info("worker_started", zap.String("redis", cfg.Queue.Addr), zap.Int("concurrency", cfg.Queue.Concurrency))
	if err := svc.Run(ctx); err != nil {
		log.Fatal("worker_failed", zap.Error(err))
	}
	log.Info("worker_stopped")
}
