package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"positionScope/internal/analysis"
	"positionScope/internal/cache"
	"positionScope/internal/chain"
	"positionScope/internal/config"
	"positionScope/internal/datasource"
	"positionScope/internal/dex"
	"positionScope/internal/report"
	"positionScope/internal/storage"
	"positionScope/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "analyzer",
		Short:        "Uniswap V3 position economics analyzer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a hypothetical position over a block window",
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().String("rpc", "", "archive RPC URL")
	analyzeCmd.Flags().String("pool", "", "V3 pool address")
	analyzeCmd.Flags().Uint64("from", 0, "start block (position opens here)")
	analyzeCmd.Flags().Uint64("to", 0, "end block (position is valued here)")
	analyzeCmd.Flags().Int("tick-lower", 0, "position lower tick (inclusive)")
	analyzeCmd.Flags().Int("tick-upper", 0, "position upper tick (exclusive)")
	analyzeCmd.Flags().Float64("amount0", 0, "committed token0, whole tokens")
	analyzeCmd.Flags().Float64("amount1", 0, "committed token1, whole tokens")
	analyzeCmd.Flags().String("cache-mode", "file", "cache mode (file, memory, off)")
	analyzeCmd.Flags().String("cache-dir", "./data/cache", "file cache directory")
	analyzeCmd.Flags().Duration("cache-ttl", 24*time.Hour, "cache entry lifetime")
	analyzeCmd.Flags().Int("tick-workers", 10, "concurrent tick fetches")
	analyzeCmd.Flags().Uint64("batch-size", 2000, "blocks per getLogs batch")
	analyzeCmd.Flags().Int("max-retries", 5, "maximum RPC retry attempts")
	analyzeCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	analyzeCmd.Flags().String("out", "", "optional JSONL output path")
	analyzeCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for result storage")
	analyzeCmd.Flags().Bool("show-ticks", false, "print the per-tick fee ledger")
	analyzeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(analyzeCmd)

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache maintenance",
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached RPC responses",
		RunE:  runCacheClear,
	}
	clearCmd.Flags().String("cache-dir", "./data/cache", "file cache directory")
	clearCmd.Flags().Duration("cache-ttl", 24*time.Hour, "cache entry lifetime")
	clearCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cacheCmd.AddCommand(clearCmd)
	root.AddCommand(cacheCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	reader := dex.NewPoolReader(chainClient, dex.ReaderConfig{
		TickWorkers: cfg.TickWorkers,
		BatchSize:   cfg.BatchSize,
		MaxRetries:  uint(cfg.MaxRetries),
		RetryDelay:  cfg.RetryBackoff,
	}, logger)

	source, err := buildSource(reader, cfg, logger)
	if err != nil {
		return err
	}

	runner := analysis.NewRunner(source, logger)

	logger.Info("analysis start",
		zap.String("pool", cfg.Pool),
		zap.Uint64("from", cfg.StartBlock),
		zap.Uint64("to", cfg.EndBlock),
		zap.Int("tick_lower", cfg.TickLower),
		zap.Int("tick_upper", cfg.TickUpper),
		zap.Float64("amount0", cfg.Amount0),
		zap.Float64("amount1", cfg.Amount1),
	)

	result, _, err := runner.Run(ctx, analysis.RunConfig{
		Pool:       cfg.Pool,
		StartBlock: cfg.StartBlock,
		EndBlock:   cfg.EndBlock,
		TickLower:  cfg.TickLower,
		TickUpper:  cfg.TickUpper,
		Amount0:    cfg.Amount0,
		Amount1:    cfg.Amount1,
	})
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(6, cfg.ShowTicks)
	if err := renderer.Render(os.Stdout, result); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if cfg.Out != "" {
		sink := storage.NewJsonlSink(cfg.Out)
		if err := sink.PutResult(result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		logger.Info("result written", zap.String("out", cfg.Out))
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.PutResult(result); err != nil {
			return fmt.Errorf("store result: %w", err)
		}
		logger.Info("result stored")
	}

	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	provider, err := cache.NewFile(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if err := provider.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	logger.Info("cache cleared", zap.String("dir", cfg.CacheDir))
	return nil
}

func buildSource(reader *dex.PoolReader, cfg config.Config, logger *zap.Logger) (datasource.Source, error) {
	switch cfg.CacheMode {
	case "off":
		return reader, nil
	case "memory":
		return datasource.NewCached(reader, cache.NewMemory(cfg.CacheTTL), cfg.CacheTTL, logger), nil
	default:
		provider, err := cache.NewFile(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return datasource.NewCached(reader, provider, cfg.CacheTTL, logger), nil
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
