package repository

import (
	"context"
	"testing"
	"time"

	"github.com/example/market/pkg/config"
	"github.com/example/market/pkg/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOrderKey(t *testing.T) {
	assert.Equal(t, "order:boot-a:ORDER-12", orderKey("boot-a", "ORDER-12"))
	assert.NotEqual(t, orderKey("boot-a", "ORDER-1"), orderKey("boot-b", "ORDER-1"))
}

func TestHistoryFilterScopesByInstance(t *testing.T) {
	assert.Equal(t, bson.D{
		{Key: "instance", Value: "boot-a"},
		{Key: "entity_id", Value: "ORDER-1"},
	}, historyFilter("boot-a", "ORDER-1"))
}

func TestRedisUnavailable(t *testing.T) {
	cfg := &config.RedisConfig{Addr: "127.0.0.1:1", OrderTTL: time.Minute}
	repo := NewRedisRepositoryWithClient(redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}), cfg)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, repo.Ping(ctx))
	assert.Error(t, repo.CacheOrder(ctx, "boot-a", &models.Order{ID: "ORDER-1"}))

	_, err := repo.GetOrderCache(ctx, "boot-a", "ORDER-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestMongoRejectsBadURI(t *testing.T) {
	_, err := NewMongoRepository(&config.MongoDBConfig{URI: "not-a-mongo-uri", Database: "market", Collection: "audit_logs"})
	assert.Error(t, err)
}
