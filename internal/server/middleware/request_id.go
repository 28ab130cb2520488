package middleware

import (
	"context"

	httpclient "github.com/carousell/ct-go/pkg/httpclient"
	"github.com/labstack/echo/v4"
)

const (
	XRequestID     = "x-request-id"
	XCorrelationID = "x-correlation-id"

	maxRequestIDLength = 128
)

type requestIDKey struct{}

// GetRequestID returns the id the RequestID middleware assigned.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(XRequestID).(string)
	return id
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// validRequestID rejects ids that are too long or carry spaces or control
// characters, since they end up verbatim in log lines.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestID propagates the caller's x-request-id (or x-correlation-id) when it
// is safe to log, and generates a correlation id otherwise.
func RequestID() echo.MiddlewareFunc {
	return RequestIDWithGenerator(httpclient.GenerateCorrelationID)
}

func RequestIDWithGenerator(generate func() string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := ""
			for _, key := range []string{XRequestID, XCorrelationID} {
				if v := req.Header.Get(key); validRequestID(v) {
					id = v
					break
				}
			}
			if id == "" {
				id = generate()
			}

			ctx := context.WithValue(req.Context(), requestIDKey{}, id)
			// string key, shared with the ct-go packages that read the correlation id
			//lint:ignore SA1029 exposed on purpose
			ctx = context.WithValue(ctx, XCorrelationID, id)
			c.SetRequest(req.WithContext(ctx))
			c.Set(XRequestID, id)
			c.Response().Header().Set(XRequestID, id)
			return next(c)
		}
	}
}
