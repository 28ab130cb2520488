package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchHistoryRepository stores one record per completed search.
type SearchHistoryRepository interface {
	Save(ctx context.Context, record *models.SearchRecord) error
	Recent(ctx context.Context, limit int) ([]models.SearchRecord, error)
}

type searchHistoryRepo struct {
	records collection[models.SearchRecord]
}

func NewSearchHistoryRepository(db *mongo.Database) SearchHistoryRepository {
	return &searchHistoryRepo{
		records: newCollection[models.SearchRecord](db),
	}
}

func (r *searchHistoryRepo) Save(ctx context.Context, record *models.SearchRecord) error {
	if record.ID.IsZero() {
		record.ID = models.NewObjectID()
	}
	if err := r.records.insert(ctx, *record); err != nil {
		return fmt.Errorf("save search record: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (r *searchHistoryRepo) Recent(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	records, err := r.records.list(ctx, nil,
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("find recent searches: %w", err)
	}
	return records, nil
}

// noopSearchHistory is used when the database is disabled.
type noopSearchHistory struct{}

func NewNoopSearchHistory() SearchHistoryRepository {
	return noopSearchHistory{}
}

func (noopSearchHistory) Save(context.Context, *models.SearchRecord) error { return nil }

func (noopSearchHistory) Recent(context.Context, int) ([]models.SearchRecord, error) {
	return []models.SearchRecord{}, nil
}
