package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/market/pkg/config"
	"github.com/example/market/pkg/models"
	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return NewRedisRepositoryWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}), cfg)
}

// NewRedisRepositoryWithClient wraps an existing client.
func NewRedisRepositoryWithClient(client *redis.Client, cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{client: client, config: cfg}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// orderKey namespaces order ids by the boot that allocated them, since
// every boot starts again at ORDER-1.
func orderKey(instance, id string) string {
	return fmt.Sprintf("order:%s:%s", instance, id)
}

// CacheOrder stores the order for the configured order TTL.
func (r *RedisRepository) CacheOrder(ctx context.Context, instance string, order *models.Order) error {
	return r.SetJSON(ctx, orderKey(instance, order.ID), order, r.config.OrderTTL)
}

func (r *RedisRepository) GetOrderCache(ctx context.Context, instance, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.GetJSON(ctx, orderKey(instance, orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}
