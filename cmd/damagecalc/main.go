// Package main provides a command-line damage estimator for one observed attack.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/pvptracker/internal/config"
	"github.com/cory-johannsen/pvptracker/internal/game/combat"
	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
	"github.com/cory-johannsen/pvptracker/internal/observability"
	"github.com/cory-johannsen/pvptracker/internal/storage/postgres"
	"github.com/cory-johannsen/pvptracker/internal/storage/rediscache"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and PVP_* environment when empty)")
	attackerFlag := flag.String("attacker", "", "attacker equipment slot values (item id + 512), comma separated")
	defenderFlag := flag.String("defender", "", "defender equipment slot values (item id + 512), comma separated")
	styleFlag := flag.String("style", "", "attack style name, e.g. slash or special_range")
	animation := flag.Int("animation", 0, "attack animation id; used when -style is empty")
	success := flag.Bool("success", true, "whether the defender's protection prayer failed to block the attack")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	attacker, err := parseEquipment(*attackerFlag)
	if err != nil {
		logger.Fatal("parsing attacker equipment", zap.Error(err))
	}
	defender, err := parseEquipment(*defenderFlag)
	if err != nil {
		logger.Fatal("parsing defender equipment", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider, closeProvider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("building item stats provider", zap.Error(err))
	}
	defer closeProvider()

	estimator, err := buildEstimator(cfg.Ruleset, provider, logger)
	if err != nil {
		logger.Fatal("building estimator", zap.Error(err))
	}

	var b combat.Breakdown
	if *styleFlag != "" {
		style, err := combat.ParseAttackStyle(*styleFlag)
		if err != nil {
			logger.Fatal("parsing attack style", zap.Error(err))
		}
		b = estimator.Estimate(ctx, attacker, defender, style, *success)
	} else {
		var ok bool
		b, ok = estimator.EstimateAnimation(ctx, attacker, defender, *animation, *success)
		if !ok {
			fmt.Fprintf(os.Stderr, "animation %d is not an attack\n", *animation)
			os.Exit(1)
		}
	}

	fmt.Print(formatBreakdown(b))
}

// buildProvider assembles the live item stats chain selected by cfg. The
// returned close function releases any connections it opened.
func buildProvider(ctx context.Context, cfg config.Config, logger *zap.Logger) (inventory.Provider, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var provider inventory.Provider
	if cfg.ItemStats.Source == config.SourcePostgres {
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, closeAll, fmt.Errorf("connecting to database: %w", err)
		}
		closers = append(closers, pool.Close)
		provider = postgres.NewItemStatsRepository(pool)
		logger.Info("item stats source connected",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
	}

	if cfg.ItemStats.Cache {
		if provider == nil {
			logger.Warn("item stats cache ignored for static source")
			return provider, closeAll, nil
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		provider = rediscache.New(client, provider, cfg.Redis.TTL, logger)
	}
	return provider, closeAll, nil
}

// buildEstimator validates the ruleset and wires the resolver and calculator.
func buildEstimator(cfg config.RulesetConfig, provider inventory.Provider, logger *zap.Logger) (*combat.Estimator, error) {
	rules := combat.NewRuleset(cfg)
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return combat.NewEstimator(
		inventory.NewResolver(provider, logger),
		combat.NewCalculator(rules, logger),
		logger,
	), nil
}

// parseEquipment parses a comma-separated list of equipment values. Blank
// entries are empty slots.
func parseEquipment(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		out[i] = id
	}
	return out, nil
}

func formatBreakdown(b combat.Breakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "style:       %s\n", b.Style)
	fmt.Fprintf(&sb, "special:     %v\n", b.UsingSpecial)
	fmt.Fprintf(&sb, "weapon:      %d (%s)\n", b.WeaponID, inventory.LookupWeapon(b.WeaponID).Name)
	fmt.Fprintf(&sb, "rule:        %s\n", b.Rule)
	fmt.Fprintf(&sb, "max hit:     %d\n", b.MaxHit)
	fmt.Fprintf(&sb, "accuracy:    %.4f\n", b.Accuracy)
	fmt.Fprintf(&sb, "average hit: %d\n", b.AverageHit)
	return sb.String()
}
