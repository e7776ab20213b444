package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.CacheMode)
	assert.Equal(t, "./data/cache", cfg.CacheDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.TickWorkers)
	assert.Equal(t, uint64(2000), cfg.BatchSize)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
rpc: http://localhost:8545
pool: "0x1111111111111111111111111111111111111111"
from: 1000
to: 2000
tick-lower: -600
tick-upper: 600
amount0: 1500.5
amount1: 2.25
cache-mode: memory
log-level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.Pool)
	assert.Equal(t, uint64(1000), cfg.StartBlock)
	assert.Equal(t, uint64(2000), cfg.EndBlock)
	assert.Equal(t, -600, cfg.TickLower)
	assert.Equal(t, 600, cfg.TickUpper)
	assert.Equal(t, 1500.5, cfg.Amount0)
	assert.Equal(t, 2.25, cfg.Amount1)
	assert.Equal(t, "memory", cfg.CacheMode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := Config{
		RPCURL:    "http://localhost:8545",
		Pool:      "0x1111111111111111111111111111111111111111",
		EndBlock:  100,
		TickLower: -10,
		TickUpper: 10,
		CacheMode: "off",
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing rpc", func(c *Config) { c.RPCURL = "" }},
		{"missing pool", func(c *Config) { c.Pool = "" }},
		{"inverted window", func(c *Config) { c.StartBlock = 200 }},
		{"inverted ticks", func(c *Config) { c.TickLower = 20 }},
		{"negative amount", func(c *Config) { c.Amount0 = -1 }},
		{"bad cache mode", func(c *Config) { c.CacheMode = "redis" }},
	}
	for _, tc := range cases {
		cfg := valid
		tc.mutate(&cfg)
		assert.Errorf(t, cfg.Validate(), "case %s", tc.name)
	}
}
