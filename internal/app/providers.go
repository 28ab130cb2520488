package app

import (
	"context"
	"fmt"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/kafka"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/amazon"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/flipkart"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
	"github.com/nguyentranbao-ct/price-compare/pkg/crypto"
	"go.uber.org/fx"
)

// newRegistry registers the providers in column order.
func newRegistry(conf *config.Config, amazonClient amazon.Client, flipkartClient flipkart.Client) (providers.Registry, error) {
	reg := providers.NewRegistry()
	for _, p := range []providers.Provider{
		amazon.NewProvider(amazonClient, conf),
		flipkart.NewProvider(flipkartClient, conf),
	} {
		if err := reg.Register(p); err != nil {
			return nil, fmt.Errorf("register provider: %w", err)
		}
	}
	return reg, nil
}

func newSearchHistory(lc fx.Lifecycle, conf *config.Config) (mongodb.SearchHistoryRepository, error) {
	if !conf.Database.Enabled {
		logger.MustNamed("app").Infow("search history disabled")
		return mongodb.NewNoopSearchHistory(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.Connect(ctx, conf.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return mongodb.EnsureIndexes(ctx, db)
		},
		OnStop: db.Close,
	})
	return mongodb.NewSearchHistoryRepository(db.Database), nil
}

func newEventPublisher(conf *config.Config) (kafka.EventPublisher, error) {
	return kafka.NewEventPublisher(&conf.Kafka)
}

func newSealer(conf *config.Config) (crypto.Sealer, error) {
	if conf.Session.Secret == "" {
		logger.MustNamed("app").Warnw("SESSION_SECRET is empty, session cookies are not sealed")
	}
	return crypto.NewSealer(conf.Session.Secret)
}
