package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/price-compare/internal/server/middleware"
	"github.com/nguyentranbao-ct/price-compare/internal/view"
	"github.com/nguyentranbao-ct/price-compare/pkg/crypto"
	"go.uber.org/fx"
)

type Options struct {
	Conf     *config.Config
	Handler  Controller
	Renderer view.Renderer
	Sealer   crypto.Sealer
	Log      pkgmdw.Logger
}

// NewEcho builds the HTTP server with every route and middleware mounted.
// The returned func releases the statsd client when one was created.
func NewEcho(opts Options) (*echo.Echo, func(), error) {
	conf := opts.Conf
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = errorHandler(opts.Log, opts.Renderer)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: opts.Log,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	closeProfiler := func() {}
	if conf.Server.StatsdAddress != "" {
		profiler, closeFn, err := pkgmdw.ProfilerWithConfig(pkgmdw.ProfilerConfig{
			Log:     opts.Log,
			Address: conf.Server.StatsdAddress,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create profiler: %w", err)
		}
		e.Use(profiler)
		closeProfiler = closeFn
	}

	origins, err := regexp.Compile(conf.Server.CORSOrigins)
	if err != nil {
		return nil, nil, fmt.Errorf("compile cors origins: %w", err)
	}

	session := pkgmdw.Session(pkgmdw.SessionConfig{
		Cookie: conf.Session.Cookie,
		TTL:    conf.Session.TTL,
		Sealer: opts.Sealer,
	})

	h := opts.Handler
	e.GET("/health", h.Health)
	e.GET("/", h.Index, session)
	e.POST("/search", h.Submit, session)

	api := e.Group("/api/v1", pkgmdw.CORS(origins), session)
	api.GET("/search", pkgmdw.WrapHandler(h.SearchAPI))
	api.GET("/session", pkgmdw.WrapHandler(h.SessionAPI))
	api.GET("/searches", pkgmdw.WrapHandler(h.RecentSearchesAPI))

	if conf.Server.Pprof {
		pkgmdw.PprofWrap(e)
	}
	return e, closeProfiler, nil
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
	renderer view.Renderer,
	sealer crypto.Sealer,
) error {
	e, closeProfiler, err := NewEcho(Options{
		Conf:     conf,
		Handler:  handler,
		Renderer: renderer,
		Sealer:   sealer,
		Log:      logger.MustNamed("http"),
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				addr := conf.Server.Addr()
				log.Infow(ctx, "starting HTTP server", "addr", addr)
				if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer closeProfiler()
			return e.Shutdown(ctx)
		},
	})
	return nil
}
