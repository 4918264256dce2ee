package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/market/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// MongoRepository stores the order audit trail.
type MongoRepository struct {
	client *mongo.Client
	logs   *mongo.Collection
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client: client,
		logs:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// AuditLog is one entry of an order's trail, e.g. order_created.
// Instance is the service boot that wrote it; order ids are only unique
// within one boot.
type AuditLog struct {
	ID        string    `bson:"_id,omitempty"`
	Service   string    `bson:"service"`
	Instance  string    `bson:"instance"`
	Action    string    `bson:"action"`
	EntityID  string    `bson:"entity_id"`
	Data      bson.M    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

// historyFilter selects the entries of one order of one boot.
func historyFilter(instance, orderID string) bson.D {
	return bson.D{
		{Key: "instance", Value: instance},
		{Key: "entity_id", Value: orderID},
	}
}

// EnsureIndexes creates the index order history lookups run on.
func (m *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "instance", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("order_history"),
	})
	if err != nil {
		return fmt.Errorf("failed to create order history index: %w", err)
	}
	return nil
}

// CreateAuditLog inserts log, stamping CreatedAt when it is unset.
func (m *MongoRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	_, err := m.logs.InsertOne(ctx, log)
	return err
}

// GetOrderHistory returns up to limit entries for orderID as allocated by
// instance, newest first.
func (m *MongoRepository) GetOrderHistory(ctx context.Context, instance, orderID string, limit int64) ([]*AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := m.logs.Find(ctx, historyFilter(instance, orderID), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]*AuditLog, 0)
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
