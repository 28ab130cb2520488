package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	pkgmdw "github.com/nguyentranbao-ct/price-compare/internal/server/middleware"
	"github.com/nguyentranbao-ct/price-compare/internal/view"
)

// errorHandler answers /api routes with the JSON envelope and every other
// route with the HTML error page.
func errorHandler(log pkgmdw.Logger, renderer view.Renderer) echo.HTTPErrorHandler {
	jsonHandler := pkgmdw.ErrorHandler(log)
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}
		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			jsonHandler(err, c)
			return
		}

		resp := pkgmdw.ToResponseError(err, c)
		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "path", c.Request().URL.Path, "error", err)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Status)
			return
		}

		buf := new(bytes.Buffer)
		if rerr := renderer.RenderError(buf, resp.Status, resp.ErrorMessage); rerr != nil {
			log.Errorw("could not render error page", "error", rerr)
			_ = c.String(resp.Status, resp.ErrorMessage)
			return
		}
		_ = c.HTMLBlob(resp.Status, buf.Bytes())
	}
}
