package middleware

import (
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the request duration histogram.
type MetricsConfig struct {
	Skipper     Skipper
	Namespace   string
	Subsystem   string
	Buckets     []float64
	MetricsPath string
	// GroupStatus labels codes as 2xx, 4xx and so on instead of the exact code.
	GroupStatus bool
}

// notFoundPath replaces the path label of unmatched requests, so scanners
// cannot grow the series count.
const notFoundPath = "/not-found"

var DefaultMetricsConfig = MetricsConfig{
	Skipper:     skipHealth,
	Namespace:   "price_compare",
	Subsystem:   "http",
	Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
	MetricsPath: "/metrics",
}

func skipHealth(c echo.Context) bool {
	return c.Path() == "/health"
}

type httpMetrics struct {
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func newHTTPMetrics(config MetricsConfig) httpMetrics {
	m := httpMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "Time spent serving a route.",
			Buckets:   config.Buckets,
		}, []string{"code", "method", "path"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
	m.duration = registerOrReuse(m.duration)
	m.inFlight = registerOrReuse(m.inFlight)
	return m
}

func registerOrReuse[C prometheus.Collector](c C) C {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

func statusLabel(status int, group bool) string {
	if !group {
		return strconv.Itoa(status)
	}
	return strconv.Itoa(status/100) + "xx"
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

// MetricsWithConfig measures every routed request and serves the prometheus
// handler on MetricsPath.
func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	metrics := newHTTPMetrics(config)

	var promHandler echo.HandlerFunc
	if config.MetricsPath != "" {
		promHandler = echo.WrapHandler(promhttp.Handler())
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if promHandler != nil && req.URL.Path == config.MetricsPath {
				return promHandler(c)
			}
			if config.Skipper(c) {
				return next(c)
			}

			path := c.Path()
			if isNotFoundHandler(c.Handler()) {
				path = notFoundPath
			}

			metrics.inFlight.Inc()
			defer metrics.inFlight.Dec()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			metrics.duration.
				WithLabelValues(statusLabel(c.Response().Status, config.GroupStatus), req.Method, path).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
