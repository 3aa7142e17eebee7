// Package config provides Viper-based configuration loading for the damage estimator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Item stats source values.
const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL connection settings for the live item stats source.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds settings for the item stats cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTL is how long a cached lookup, hit or miss, stays valid.
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ItemStatsConfig selects where live item bonuses come from.
type ItemStatsConfig struct {
	// Source is "static" (override catalog only) or "postgres".
	Source string `mapstructure:"source"`
	// Cache enables the Redis read-through cache in front of Source.
	Cache bool `mapstructure:"cache"`
}

// RulesetConfig holds the fixed combat levels and prayer multipliers assumed
// for both combatants.
type RulesetConfig struct {
	AttackLevel   int `mapstructure:"attack_level"`
	StrengthLevel int `mapstructure:"strength_level"`
	DefenceLevel  int `mapstructure:"defence_level"`
	RangedLevel   int `mapstructure:"ranged_level"`
	MagicLevel    int `mapstructure:"magic_level"`

	PietyAttack    float64 `mapstructure:"piety_attack"`
	PietyStrength  float64 `mapstructure:"piety_strength"`
	PietyDefence   float64 `mapstructure:"piety_defence"`
	RigourAttack   float64 `mapstructure:"rigour_attack"`
	RigourStrength float64 `mapstructure:"rigour_strength"`
	AuguryAttack   float64 `mapstructure:"augury_attack"`
	AuguryDefence  float64 `mapstructure:"augury_defence"`

	AmmoDamageAmplifier   float64 `mapstructure:"ammo_damage_amplifier"`
	AmmoAccuracyAmplifier float64 `mapstructure:"ammo_accuracy_amplifier"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Ruleset   RulesetConfig   `mapstructure:"ruleset"`
	ItemStats ItemStatsConfig `mapstructure:"itemstats"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRuleset(c.Ruleset); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateItemStats(c.ItemStats); err != nil {
		errs = append(errs, err.Error())
	}
	if c.ItemStats.Source == SourcePostgres {
		if err := c.Database.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.ItemStats.Cache {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRuleset(r RulesetConfig) error {
	var errs []string
	levels := []struct {
		name  string
		value int
	}{
		{"attack_level", r.AttackLevel},
		{"strength_level", r.StrengthLevel},
		{"defence_level", r.DefenceLevel},
		{"ranged_level", r.RangedLevel},
		{"magic_level", r.MagicLevel},
	}
	for _, l := range levels {
		if l.value < 1 {
			errs = append(errs, fmt.Sprintf("ruleset.%s must be >= 1, got %d", l.name, l.value))
		}
	}
	multipliers := []struct {
		name  string
		value float64
	}{
		{"piety_attack", r.PietyAttack},
		{"piety_strength", r.PietyStrength},
		{"piety_defence", r.PietyDefence},
		{"rigour_attack", r.RigourAttack},
		{"rigour_strength", r.RigourStrength},
		{"augury_attack", r.AuguryAttack},
		{"augury_defence", r.AuguryDefence},
		{"ammo_damage_amplifier", r.AmmoDamageAmplifier},
		{"ammo_accuracy_amplifier", r.AmmoAccuracyAmplifier},
	}
	for _, m := range multipliers {
		if m.value <= 0 {
			errs = append(errs, fmt.Sprintf("ruleset.%s must be > 0, got %g", m.name, m.value))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateItemStats(s ItemStatsConfig) error {
	validSources := map[string]bool{SourceStatic: true, SourcePostgres: true}
	if !validSources[s.Source] {
		return fmt.Errorf("itemstats.source must be one of [static, postgres], got %q", s.Source)
	}
	return nil
}

// Validate checks the connection settings. Config.Validate only calls it for
// the postgres item stats source; tools that always connect call it directly.
func (d DatabaseConfig) Validate() error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.TTL <= 0 {
		errs = append(errs, "redis.ttl must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with PVP_ prefix
	v.SetEnvPrefix("PVP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("ruleset.attack_level", 118)
	v.SetDefault("ruleset.strength_level", 118)
	v.SetDefault("ruleset.defence_level", 75)
	v.SetDefault("ruleset.ranged_level", 112)
	v.SetDefault("ruleset.magic_level", 99)
	v.SetDefault("ruleset.piety_attack", 1.20)
	v.SetDefault("ruleset.piety_strength", 1.23)
	v.SetDefault("ruleset.piety_defence", 1.25)
	v.SetDefault("ruleset.rigour_attack", 1.20)
	v.SetDefault("ruleset.rigour_strength", 1.23)
	v.SetDefault("ruleset.augury_attack", 1.25)
	v.SetDefault("ruleset.augury_defence", 1.25)
	v.SetDefault("ruleset.ammo_damage_amplifier", 1.015)
	v.SetDefault("ruleset.ammo_accuracy_amplifier", 1.1)

	v.SetDefault("itemstats.source", SourceStatic)
	v.SetDefault("itemstats.cache", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pvp")
	v.SetDefault("database.password", "pvp")
	v.SetDefault("database.name", "pvp")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
}
