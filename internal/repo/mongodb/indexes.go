package mongodb

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the history queries rely on. It is
// idempotent and runs on every start.
func EnsureIndexes(ctx context.Context, db *DB) error {
	coll := db.Database.Collection(models.SearchRecord{}.CollectionName())
	names, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "query", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("query_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("create search history indexes: %w", err)
	}
	log.Infow(ctx, "mongodb indexes ensured", "collection", coll.Name(), "indexes", names)
	return nil
}
