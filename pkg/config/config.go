package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. MARKET_SERVER_PORT.
const EnvPrefix = "MARKET"

// Pagination styles accepted by the product listing.
const (
	PaginationPage   = "page"
	PaginationOffset = "offset"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Cart       CartConfig       `mapstructure:"cart"`
	Checkout   CheckoutConfig   `mapstructure:"checkout"`
	Etcd       EtcdConfig       `mapstructure:"etcd"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MongoDB    MongoDBConfig    `mapstructure:"mongodb"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Name            string        `mapstructure:"name"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PublicURL       string        `mapstructure:"public_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CategoryConfig describes one catalog category and its price range.
type CategoryConfig struct {
	Code     string  `mapstructure:"code"`
	Name     string  `mapstructure:"name"`
	MinPrice float64 `mapstructure:"min_price"`
	MaxPrice float64 `mapstructure:"max_price"`
}

type CatalogConfig struct {
	TargetCount int    `mapstructure:"target_count"`
	Seed        uint64 `mapstructure:"seed"`
	Currency    string `mapstructure:"currency"`
	// Categories overrides the built-in category list when non-empty.
	Categories []CategoryConfig `mapstructure:"categories"`
}

type PaginationConfig struct {
	Style        string `mapstructure:"style"`
	DefaultLimit int    `mapstructure:"default_limit"`
	MaxLimit     int    `mapstructure:"max_limit"`
}

type CartConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type CheckoutConfig struct {
	ConsumeCart bool `mapstructure:"consume_cart"`
}

type EtcdConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
	LeaseTTL    int64         `mapstructure:"lease_ttl"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	OrderTTL time.Duration `mapstructure:"order_ttl"`
}

type MongoDBConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "market")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.public_url", "http://localhost:4000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("catalog.target_count", 10000)
	v.SetDefault("catalog.seed", 42)
	v.SetDefault("catalog.currency", "TRY")

	v.SetDefault("pagination.style", PaginationPage)
	v.SetDefault("pagination.default_limit", 12)
	v.SetDefault("pagination.max_limit", 100)

	v.SetDefault("cart.ttl", time.Duration(0))
	v.SetDefault("cart.sweep_interval", time.Minute)

	v.SetDefault("checkout.consume_cart", false)

	v.SetDefault("etcd.enabled", false)
	v.SetDefault("etcd.endpoints", []string{"localhost:2379"})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/services/")
	v.SetDefault("etcd.lease_ttl", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.order_ttl", 24*time.Hour)

	v.SetDefault("mongodb.enabled", false)
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "market")
	v.SetDefault("mongodb.collection", "audit_logs")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

// Load builds the configuration from defaults, an optional YAML file and
// MARKET_* environment variables, in increasing order of precedence.
// An empty configPath or a missing file is not an error.
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Catalog.TargetCount <= 0 {
		return fmt.Errorf("catalog.target_count must be positive, got %d", c.Catalog.TargetCount)
	}
	if c.Catalog.Currency == "" {
		return errors.New("catalog.currency is required")
	}
	for i, cat := range c.Catalog.Categories {
		if cat.Code == "" || cat.Name == "" {
			return fmt.Errorf("catalog.categories[%d]: code and name are required", i)
		}
		if cat.MinPrice < 0 || cat.MinPrice > cat.MaxPrice {
			return fmt.Errorf("catalog.categories[%d]: invalid price range [%v, %v]", i, cat.MinPrice, cat.MaxPrice)
		}
	}
	switch c.Pagination.Style {
	case PaginationPage, PaginationOffset:
	default:
		return fmt.Errorf("pagination.style must be %q or %q, got %q", PaginationPage, PaginationOffset, c.Pagination.Style)
	}
	if c.Pagination.DefaultLimit <= 0 {
		return fmt.Errorf("pagination.default_limit must be positive, got %d", c.Pagination.DefaultLimit)
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("pagination.max_limit %d is below default_limit %d", c.Pagination.MaxLimit, c.Pagination.DefaultLimit)
	}
	if c.Cart.TTL < 0 {
		return fmt.Errorf("cart.ttl must not be negative, got %s", c.Cart.TTL)
	}
	if c.Cart.TTL > 0 && c.Cart.SweepInterval <= 0 {
		return fmt.Errorf("cart.sweep_interval must be positive when cart.ttl is set, got %s", c.Cart.SweepInterval)
	}
	return nil
}
