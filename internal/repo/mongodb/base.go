package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document is a model stored in a collection of its own.
type Document interface {
	CollectionName() string
	GetObjectID() models.ObjectID
}

// collection is the typed access shared by the repositories.
type collection[D Document] struct {
	coll *mongo.Collection
}

func newCollection[D Document](db *mongo.Database) collection[D] {
	var doc D
	return collection[D]{coll: db.Collection(doc.CollectionName())}
}

func (c collection[D]) insert(ctx context.Context, doc D) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

// list decodes every match. It never returns a nil slice.
func (c collection[D]) list(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]D, error) {
	if filter == nil {
		filter = bson.D{}
	}
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	docs := []D{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}
