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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:4000", cfg.Server.Addr())
	assert.Equal(t, 10000, cfg.Catalog.TargetCount)
	assert.Equal(t, uint64(42), cfg.Catalog.Seed)
	assert.Equal(t, "TRY", cfg.Catalog.Currency)
	assert.Empty(t, cfg.Catalog.Categories)
	assert.Equal(t, PaginationPage, cfg.Pagination.Style)
	assert.Equal(t, 12, cfg.Pagination.DefaultLimit)
	assert.Equal(t, time.Duration(0), cfg.Cart.TTL)
	assert.False(t, cfg.Checkout.ConsumeCart)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.MongoDB.Enabled)
	assert.False(t, cfg.Etcd.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MARKET_SERVER_PORT", "9090")
	t.Setenv("MARKET_CATALOG_TARGET_COUNT", "250")
	t.Setenv("MARKET_CATALOG_SEED", "7")
	t.Setenv("MARKET_PAGINATION_STYLE", "offset")
	t.Setenv("MARKET_CART_TTL", "30m")
	t.Setenv("MARKET_CHECKOUT_CONSUME_CART", "true")
	t.Setenv("MARKET_ETCD_ENDPOINTS", "etcd-1:2379,etcd-2:2379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Catalog.TargetCount)
	assert.Equal(t, uint64(7), cfg.Catalog.Seed)
	assert.Equal(t, PaginationOffset, cfg.Pagination.Style)
	assert.Equal(t, 30*time.Minute, cfg.Cart.TTL)
	assert.True(t, cfg.Checkout.ConsumeCart)
	assert.Equal(t, []string{"etcd-1:2379", "etcd-2:2379"}, cfg.Etcd.Endpoints)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.yaml")
	yaml := `
server:
  port: 8081
catalog:
  target_count: 40
  categories:
    - code: sebze
      name: Sebze
      min_price: 12
      max_price: 55
    - code: meyve
      name: Meyve
      min_price: 15
      max_price: 75
redis:
  enabled: true
  addr: cache:6379
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 40, cfg.Catalog.TargetCount)
	require.Len(t, cfg.Catalog.Categories, 2)
	assert.Equal(t, CategoryConfig{Code: "meyve", Name: "Meyve", MinPrice: 15, MaxPrice: 75}, cfg.Catalog.Categories[1])
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero target", func(c *Config) { c.Catalog.TargetCount = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"no currency", func(c *Config) { c.Catalog.Currency = "" }},
		{"unknown pagination", func(c *Config) { c.Pagination.Style = "cursor" }},
		{"zero default limit", func(c *Config) { c.Pagination.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Pagination.MaxLimit = 1 }},
		{"negative ttl", func(c *Config) { c.Cart.TTL = -time.Second }},
		{"ttl without sweep", func(c *Config) {
			c.Cart.TTL = time.Hour
			c.Cart.SweepInterval = 0
		}},
		{"inverted price range", func(c *Config) {
			c.Catalog.Categories = []CategoryConfig{{Code: "x", Name: "X", MinPrice: 10, MaxPrice: 5}}
		}},
		{"unnamed category", func(c *Config) {
			c.Catalog.Categories = []CategoryConfig{{Code: "x", MinPrice: 1, MaxPrice: 5}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateCartExpiry(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Cart.TTL = time.Hour
	assert.NoError(t, cfg.Validate(), "default sweep interval is enough")

	cfg.Cart.SweepInterval = 0
	assert.ErrorContains(t, cfg.Validate(), "cart.sweep_interval")

	cfg.Cart.TTL = 0
	assert.NoError(t, cfg.Validate(), "sweeping is irrelevant without a ttl")
}
