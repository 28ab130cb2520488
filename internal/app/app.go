package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/kafka"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/amazon"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/flipkart"
	"github.com/nguyentranbao-ct/price-compare/internal/server"
	"github.com/nguyentranbao-ct/price-compare/internal/usecase"
	"github.com/nguyentranbao-ct/price-compare/internal/view"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded",
		"addr", conf.Server.Addr(),
		"database_enabled", conf.Database.Enabled,
		"kafka_enabled", conf.Kafka.Enabled,
		"search_limit", conf.Search.Limit,
	)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newSearchHistory,
			newEventPublisher,
			newSealer,
			newRegistry,

			amazon.NewClient,
			flipkart.NewClient,

			usecase.NewSearchUsecase,
			usecase.NewSessionStore,

			view.NewRenderer,
			server.NewHandler,
		),
		fx.Supply(conf),
		fx.Invoke(RunSessionStore),
		fx.Invoke(funcs...),
	)
}

// RunSessionStore starts the idle session sweeper and drains background
// search work on shutdown. Hooks stop in reverse order, so the HTTP server
// stops accepting searches before the store and usecase are drained.
func RunSessionStore(
	lc fx.Lifecycle,
	sessions usecase.SessionStore,
	search usecase.SearchUsecase,
	publisher kafka.EventPublisher,
) {
	lc.Append(fx.Hook{
		OnStart: sessions.Start,
		OnStop: func(ctx context.Context) error {
			if err := sessions.Stop(ctx); err != nil {
				return err
			}
			if err := search.Shutdown(ctx); err != nil {
				return err
			}
			return publisher.Close()
		},
	})
}
