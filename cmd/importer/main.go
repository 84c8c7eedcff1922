package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ezelectronics/internal/config"
	"ezelectronics/internal/db"
	"ezelectronics/internal/importer"
	"ezelectronics/internal/logger"
	"ezelectronics/internal/repository/product"
	"go.uber.org/zap"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to the catalog CSV (model,category,sellingPrice,quantity,arrivalDate,details)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("debug", cfg.Log.ToLoggerOptions()).Named("importer")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.DSN, db.Options{})
	if err != nil {
		log.Fatal("connect_db_failed", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("open_file_failed", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, log))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatal("import_failed", zap.Int("imported", count), zap.Error(err))
	}

	log.Info("import_finished", zap.Int("products", count), zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
}
