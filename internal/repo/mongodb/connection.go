package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials the configured deployment and pings the primary before
// returning, so a bad URI fails at startup rather than on the first search.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("price-compare").
		SetMaxPoolSize(10).
		SetTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(cfg.Database),
	}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
