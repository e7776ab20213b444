package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL string

	Pool       string
	StartBlock uint64
	EndBlock   uint64

	TickLower int
	TickUpper int
	Amount0   float64
	Amount1   float64

	CacheMode string
	CacheDir  string
	CacheTTL  time.Duration

	TickWorkers  int
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration

	Out       string
	PGDSN     string
	ShowTicks bool
	LogLevel  string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POSITIONSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("cache-mode", "file")
	v.SetDefault("cache-dir", "./data/cache")
	v.SetDefault("cache-ttl", 24*time.Hour)
	v.SetDefault("tick-workers", 10)
	v.SetDefault("batch-size", uint64(2000))
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		StartBlock:   v.GetUint64("from"),
		EndBlock:     v.GetUint64("to"),
		TickLower:    v.GetInt("tick-lower"),
		TickUpper:    v.GetInt("tick-upper"),
		Amount0:      v.GetFloat64("amount0"),
		Amount1:      v.GetFloat64("amount1"),
		CacheMode:    v.GetString("cache-mode"),
		CacheDir:     v.GetString("cache-dir"),
		CacheTTL:     v.GetDuration("cache-ttl"),
		TickWorkers:  v.GetInt("tick-workers"),
		BatchSize:    v.GetUint64("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		ShowTicks:    v.GetBool("show-ticks"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the fields an analysis run requires.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc endpoint is required")
	}
	if c.Pool == "" {
		return fmt.Errorf("pool address is required")
	}
	if c.EndBlock < c.StartBlock {
		return fmt.Errorf("to block must be >= from block")
	}
	if c.TickLower >= c.TickUpper {
		return fmt.Errorf("tick-lower must be below tick-upper")
	}
	if c.Amount0 < 0 || c.Amount1 < 0 {
		return fmt.Errorf("deposit amounts must be non-negative")
	}
	switch c.CacheMode {
	case "file", "memory", "off":
	default:
		return fmt.Errorf("cache-mode must be file, memory or off")
	}
	return nil
}
