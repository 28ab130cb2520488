package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/kafka"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
	"github.com/nguyentranbao-ct/price-compare/internal/usecase"
	"github.com/nguyentranbao-ct/price-compare/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugw(string, ...interface{}) {}
func (nopLogger) Infow(string, ...interface{})  {}
func (nopLogger) Warnw(string, ...interface{})  {}
func (nopLogger) Errorw(string, ...interface{}) {}

type stubProvider struct {
	typ   providers.ProviderType
	label string
	items []models.Product
	err   error
}

func (p *stubProvider) Type() providers.ProviderType { return p.typ }
func (p *stubProvider) Label() string                { return p.label }
func (p *stubProvider) Search(context.Context, string, int) ([]models.Product, error) {
	return p.items, p.err
}

type memoryHistory struct {
	records []models.SearchRecord
}

func (h *memoryHistory) Save(context.Context, *models.SearchRecord) error { return nil }

func (h *memoryHistory) Recent(_ context.Context, limit int) ([]models.SearchRecord, error) {
	return h.records[:min(limit, len(h.records))], nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			CORSOrigins: `^https://shop\.example$`,
		},
		Search: config.SearchConfig{
			Limit:           5,
			MaxQueryLength:  200,
			ProviderTimeout: time.Second,
		},
		Session: config.SessionConfig{
			TTL:           time.Minute,
			SweepInterval: time.Minute,
			Cookie:        "pc_session",
		},
	}
}

func newTestServer(t *testing.T, history *memoryHistory) *echo.Echo {
	t.Helper()
	conf := testConfig()

	reg := providers.NewRegistry()
	require.NoError(t, reg.Register(&stubProvider{
		typ:   providers.ProviderTypeAmazon,
		label: "Amazon",
		items: []models.Product{{
			Provider: "amazon",
			Title:    "Phone A",
			Price:    "₹999",
			Rating:   4.25,
			Image:    "https://img.example/a.jpg",
			URL:      "https://amazon.example/a",
		}},
	}))
	require.NoError(t, reg.Register(&stubProvider{
		typ:   providers.ProviderTypeFlipkart,
		label: "Flipkart",
		err:   providers.NewProviderError(providers.ProviderTypeFlipkart, "search", "status 503", providers.ErrUpstreamStatus),
	}))

	publisher, err := kafka.NewEventPublisher(&conf.Kafka)
	require.NoError(t, err)
	search, err := usecase.NewSearchUsecase(conf, reg, history, publisher)
	require.NoError(t, err)
	sessions := usecase.NewSessionStore(conf, search)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	e, closeFn, err := NewEcho(Options{
		Conf:     conf,
		Handler:  NewHandler(search, sessions, renderer),
		Renderer: renderer,
		Log:      nopLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		closeFn()
		_ = sessions.Stop(context.Background())
		_ = search.Shutdown(context.Background())
	})
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "pc_session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"price-compare"}`, rec.Body.String())
}

func TestIndexShowsPrompt(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
	sessionCookie(t, rec)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Search for a product", doc.Find(".prompt").Text())
	assert.Zero(t, doc.Find("section.column").Length())
}

func TestSubmitThenRenderResults(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})

	form := url.Values{"q": {"  phone "}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := serve(e, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	cookie := sessionCookie(t, rec)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/session?wait=true", nil)
	req.AddCookie(cookie)
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		Data    models.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "phone", body.Data.Query)
	assert.False(t, body.Data.Loading)
	require.Len(t, body.Data.Results, 2)
	assert.Equal(t, models.StatusLoaded, body.Data.Results[0].State.Status)
	assert.Equal(t, models.StatusFailed, body.Data.Results[1].State.Status)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	amazon := doc.Find(`section.column[data-provider="amazon"]`)
	assert.Equal(t, "Amazon Results", strings.TrimSpace(amazon.Find("h2").Text()))
	assert.Equal(t, "Phone A", amazon.Find(".card h3").Text())
	assert.Equal(t, "₹999", amazon.Find(".price").Text())
	assert.Equal(t, "★4.3", amazon.Find(".rating").Text())
	assert.Equal(t, "Flipkart Results unavailable",
		doc.Find(`section.column[data-provider="flipkart"] .unavailable`).Text())
	assert.Equal(t, "phone", doc.Find(`input[name="q"]`).AttrOr("value", ""))
}

func TestSubmitBlankQuery(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})

	form := url.Values{"q": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := serve(e, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Please enter a product to search for.", doc.Find(".notice").Text())
	assert.Equal(t, "Search for a product", doc.Find(".prompt").Text())
}

func TestSearchAPI(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=phone", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "phone", body.Data.Query)
	assert.Equal(t, 1, body.Data.Stats.Total)
	require.Len(t, body.Data.Results, 2)
	assert.Equal(t, providers.ProviderTypeAmazon, body.Data.Results[0].Provider)
	assert.Equal(t, "Phone A", body.Data.Results[0].State.Items[0].Title)
	assert.Equal(t, "upstream error", body.Data.Results[1].State.Reason)
}

func TestSearchAPIInvalidQuery(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=+", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid_query", body["error_code"])
}

func TestRecentSearchesAPI(t *testing.T) {
	history := &memoryHistory{records: []models.SearchRecord{
		{Query: "tv"},
		{Query: "phone"},
	}}
	e := newTestServer(t, history)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/searches?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data RecentSearchesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Searches, 1)
	assert.Equal(t, "tv", body.Data.Searches[0].Query)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/searches?limit=1000", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSOnAPI(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/searches", nil)
	req.Header.Set(echo.HeaderOrigin, "https://shop.example")
	rec := serve(e, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/searches", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec = serve(e, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestNotFound(t *testing.T) {
	e := newTestServer(t, &memoryHistory{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}
