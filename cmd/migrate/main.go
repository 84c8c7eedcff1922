package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ezelectronics/internal/config"
	"ezelectronics/internal/db"
	"ezelectronics/internal/logger"
	"ezelectronics/internal/migrate"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("debug", cfg.Log.ToLoggerOptions()).Named("migrate")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.DSN, db.Options{})
	if err != nil {
		log.Fatal("connect_db_failed", zap.Error(err))
	}
	defer pool.Close()

	if *down {
		if err := migrate.Reset(ctx, pool); err != nil {
			log.Fatal("migrations_rollback_failed", zap.Error(err))
		}
		log.Info("migrations_rolled_back")
		return
	}

	version, err := migrate.Apply(ctx, pool)
	if err != nil {
		log.Fatal("migrations_failed", zap.Error(err))
	}
	log.Info("migrations_applied", zap.Uint("version", version))
}
