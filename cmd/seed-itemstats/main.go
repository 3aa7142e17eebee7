// Package main loads item bonus stats into the PostgreSQL item_stats table.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/pvptracker/internal/config"
	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
	"github.com/cory-johannsen/pvptracker/internal/observability"
	"github.com/cory-johannsen/pvptracker/internal/storage/postgres"
	"github.com/cory-johannsen/pvptracker/internal/storage/rediscache"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	file := flag.String("file", "", "item stats YAML file (embedded overrides when empty)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		log.Fatalf("invalid database config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	items, err := loadItems(*file)
	if err != nil {
		logger.Fatal("loading item stats", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	repo := postgres.NewItemStatsRepository(pool)
	n, err := repo.UpsertAll(ctx, items)
	if err != nil {
		logger.Fatal("seeding item stats", zap.Error(err))
	}

	if cfg.ItemStats.Cache {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		cache := rediscache.New(client, repo, cfg.Redis.TTL, logger)
		if err := cache.Invalidate(ctx, itemIDs(items)...); err != nil {
			logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}

	logger.Info("item stats seeded",
		zap.Int("items", n),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func loadItems(path string) ([]*inventory.ItemStats, error) {
	if path == "" {
		return inventory.StaticCatalog().Items(), nil
	}
	return inventory.LoadItemStats(path)
}

func itemIDs(items []*inventory.ItemStats) []int {
	ids := make([]int, len(items))
	for i, s := range items {
		ids[i] = s.ID
	}
	return ids
}
