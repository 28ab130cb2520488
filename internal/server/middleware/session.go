package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-compare/pkg/crypto"
	"github.com/nguyentranbao-ct/price-compare/pkg/ctxval"
)

const SessionIDKey = "session_id"

type SessionConfig struct {
	Skipper Skipper
	Cookie  string
	TTL     time.Duration
	// Sealer protects the cookie value. The zero value stores the id as is.
	Sealer crypto.Sealer
	NewID  func() string
}

var DefaultSessionConfig = SessionConfig{
	Skipper: DefaultSkipper,
	Cookie:  "pc_session",
	TTL:     30 * time.Minute,
	NewID:   uuid.NewString,
}

// GetSessionID returns the id the Session middleware resolved for this request.
func GetSessionID(c echo.Context) string {
	id, _ := c.Get(SessionIDKey).(string)
	return id
}

// Session resolves the caller's session id from a cookie, issuing a new id
// when the cookie is missing or cannot be opened. The cookie is refreshed on
// every request so it expires TTL after the last visit.
func Session(config SessionConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSessionConfig.Skipper
	}
	if config.Cookie == "" {
		config.Cookie = DefaultSessionConfig.Cookie
	}
	if config.TTL <= 0 {
		config.TTL = DefaultSessionConfig.TTL
	}
	if config.NewID == nil {
		config.NewID = DefaultSessionConfig.NewID
	}
	if config.Sealer == nil {
		config.Sealer, _ = crypto.NewSealer("")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			id := readSessionID(c, config)
			if id == "" {
				id = config.NewID()
			}
			sealed, err := config.Sealer.Seal(id)
			if err != nil {
				return err
			}
			c.SetCookie(&http.Cookie{
				Name:     config.Cookie,
				Value:    sealed,
				Path:     "/",
				MaxAge:   int(config.TTL.Seconds()),
				HttpOnly: true,
				Secure:   c.IsTLS(),
				SameSite: http.SameSiteLaxMode,
			})

			ctx := ctxval.Wrap(c.Request().Context())
			ctxval.Set(ctx, SessionIDKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(SessionIDKey, id)
			return next(c)
		}
	}
}

func readSessionID(c echo.Context, config SessionConfig) string {
	cookie, err := c.Cookie(config.Cookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	id, err := config.Sealer.Open(cookie.Value)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
