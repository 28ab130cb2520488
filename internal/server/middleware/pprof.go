package middleware

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

type PprofConfig struct {
	PathPrefix string
}

var DefaultPprofConfig = PprofConfig{
	PathPrefix: "",
}

var pprofProfiles = []string{"heap", "goroutine", "block", "mutex", "allocs", "threadcreate"}

// PprofWrap mounts the net/http/pprof handlers under {prefix}/debug/pprof.
func PprofWrap(e *echo.Echo, opts ...PprofConfig) {
	conf := DefaultPprofConfig
	if len(opts) > 0 {
		conf.PathPrefix = opts[0].PathPrefix
	}

	g := e.Group(conf.PathPrefix + "/debug/pprof")
	g.GET("/", wrapFunc(pprof.Index))
	for _, name := range pprofProfiles {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
	g.GET("/cmdline", wrapFunc(pprof.Cmdline))
	g.GET("/profile", wrapFunc(pprof.Profile))
	g.GET("/symbol", wrapFunc(pprof.Symbol))
	g.POST("/symbol", wrapFunc(pprof.Symbol))
	g.GET("/trace", wrapFunc(pprof.Trace))
}

func wrapFunc(f func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return echo.WrapHandler(http.HandlerFunc(f))
}
