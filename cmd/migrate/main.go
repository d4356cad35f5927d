package main

import (
	"context"
	"flag"
	"log"

	"mall/ordercore/internal/app/config"
	"mall/ordercore/internal/app/infra/persistence/mysql"
	"mall/ordercore/internal/app/infra/schema"
	"mall/ordercore/internal/app/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	appLogger, err := logger.NewZapLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx := context.Background()
	db, err := mysql.Open(cfg.MySQL, appLogger.Zap())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = mysql.Close(db) }()

	if err := mysql.Migrate(db); err != nil {
		log.Fatalf("Migrate failed: %v", err)
	}

	desc, err := schema.Resolve(ctx, db)
	if err != nil {
		log.Fatalf("Resolve schema failed: %v", err)
	}
	appLogger.Infof(ctx, "migrate finished, schema version=%d", desc.Version)
}
