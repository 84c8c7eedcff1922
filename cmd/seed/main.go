package main

import (
	"context"
	"fmt"
	"os"

	"ezelectronics/internal/config"
	"ezelectronics/internal/db"
	"ezelectronics/internal/logger"
	productrepo "ezelectronics/internal/repository/product"
	"ezelectronics/internal/seed"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("debug", cfg.Log.ToLoggerOptions()).Named("seed")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.DSN, db.Options{})
	if err != nil {
		log.Fatal("connect_db_failed", zap.Error(err))
	}
	defer pool.Close()

	n, err := seed.Apply(ctx, productrepo.NewPostgres(pool, log))
	if err != nil {
		log.Fatal("seed_failed", zap.Error(err))
	}
	log.Info("seed_applied", zap.Int("products", n))
}
