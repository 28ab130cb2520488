package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-compare/pkg/ctxval"
)

// LogRequestConfig configures the access log.
type LogRequestConfig struct {
	Logger  Logger
	Skipper Skipper
	// MaxBodySize caps how much of a JSON body is logged. Larger bodies are
	// logged as their size only.
	MaxBodySize  int
	KeyAndValues func(c echo.Context) []interface{}
}

const defaultMaxBodySize = 16 << 10

// LogRequest writes one line per request. JSON bodies and form values are
// included, HTML is not. Annotations set with ctxval while the request ran
// are appended, so handlers can add fields such as the search token.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = defaultMaxBodySize
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()
			c.SetRequest(c.Request().WithContext(ctxval.Wrap(c.Request().Context())))
			req := c.Request()
			res := c.Response()

			var reqBody []byte
			if isJSON(req.Header.Get(echo.HeaderContentType)) && req.Body != nil {
				reqBody, _ = io.ReadAll(req.Body)
				req.Body = io.NopCloser(bytes.NewReader(reqBody))
			}
			resBody := new(bytes.Buffer)
			res.Writer = &bodyDumpWriter{
				Writer:         io.MultiWriter(res.Writer, resBody),
				ResponseWriter: res.Writer,
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := []interface{}{
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", GetRequestID(c),
			}
			if id := GetSessionID(c); id != "" {
				args = append(args, SessionIDKey, id)
			}
			if len(req.Form) > 0 {
				args = append(args, "form", req.Form)
			}
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}
			args = append(args, annotations(c)...)
			if body := loggedBody(reqBody, config.MaxBodySize); body != nil {
				args = append(args, "request_body", body)
			}
			if isJSON(res.Header().Get(echo.HeaderContentType)) {
				if body := loggedBody(resBody.Bytes(), config.MaxBodySize); body != nil {
					args = append(args, "response_body", body)
				}
			}

			switch {
			case res.Status >= http.StatusInternalServerError:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw("", args...)
			case res.Status >= http.StatusBadRequest:
				config.Logger.Warnw("", args...)
			default:
				config.Logger.Infow("", args...)
			}
			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

func loggedBody(body []byte, max int) interface{} {
	switch {
	case len(body) == 0:
		return nil
	case len(body) > max:
		return map[string]int{"truncated_bytes": len(body)}
	default:
		return json.RawMessage(body)
	}
}

type bodyDumpWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *bodyDumpWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

// annotations returns the ctxval pairs not already logged under the same key.
func annotations(c echo.Context) []interface{} {
	pairs := ctxval.Pairs(c.Request().Context())
	out := make([]interface{}, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == SessionIDKey {
			continue
		}
		out = append(out, pairs[i], pairs[i+1])
	}
	return out
}
