package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/price-compare/internal/server/middleware"
	"github.com/nguyentranbao-ct/price-compare/internal/usecase"
	"github.com/nguyentranbao-ct/price-compare/internal/view"
	"github.com/nguyentranbao-ct/price-compare/pkg/ctxval"
)

type Controller interface {
	Index(c echo.Context) error
	Submit(c echo.Context) error
	Health(c echo.Context) error

	SearchAPI(c echo.Context, req SearchRequest) (*SearchResponse, error)
	SessionAPI(c echo.Context, req SessionRequest) (*models.Snapshot, error)
	RecentSearchesAPI(c echo.Context, req RecentSearchesRequest) (*RecentSearchesResponse, error)
}

type SearchRequest struct {
	Query string `query:"q"`
}

type SearchStats struct {
	DurationMs int64 `json:"duration_ms"`
	Total      int   `json:"total"`
}

type SearchResponse struct {
	Query   string                    `json:"query"`
	Results []usecase.ProviderOutcome `json:"results"`
	Stats   SearchStats               `json:"stats"`
}

type SessionRequest struct {
	SessionID string `session:"id" validate:"required"`
	// Wait blocks until the current search settled, bounded by the request.
	Wait bool `query:"wait"`
}

type RecentSearchesRequest struct {
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

type RecentSearchesResponse struct {
	Searches []models.SearchRecord `json:"searches"`
}

type controller struct {
	search   usecase.SearchUsecase
	sessions usecase.SessionStore
	renderer view.Renderer
}

func NewHandler(
	search usecase.SearchUsecase,
	sessions usecase.SessionStore,
	renderer view.Renderer,
) Controller {
	return &controller{
		search:   search,
		sessions: sessions,
		renderer: renderer,
	}
}

// Index renders the caller's current search state.
func (h *controller) Index(c echo.Context) error {
	snap := h.sessions.Get(pkgmdw.GetSessionID(c)).Snapshot()
	return h.renderPage(c, http.StatusOK, view.NewPage(snap, ""))
}

// Submit starts a search for the form query and redirects back to the page,
// which refreshes itself until the search settled.
func (h *controller) Submit(c echo.Context) error {
	session := h.sessions.Get(pkgmdw.GetSessionID(c))
	token, err := session.Search(c.FormValue("q"))
	if errors.Is(err, models.ErrInvalidQuery) {
		page := view.NewPage(session.Snapshot(), "Please enter a product to search for.")
		return h.renderPage(c, http.StatusBadRequest, page)
	}
	if err != nil {
		return err
	}
	ctxval.Set(c.Request().Context(), "search_token", token)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *controller) renderPage(c echo.Context, status int, page view.Page) error {
	buf := new(bytes.Buffer)
	if err := h.renderer.Render(buf, page); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(status, buf.Bytes())
}

func (h *controller) SearchAPI(c echo.Context, req SearchRequest) (*SearchResponse, error) {
	ctx := c.Request().Context()
	query, err := h.search.NormalizeQuery(req.Query)
	if err != nil {
		return nil, err
	}
	ctxval.Set(ctx, "query", query)

	start := time.Now()
	outcomes, err := h.search.Search(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, o := range outcomes {
		total += len(o.State.Items)
	}
	ctxval.Set(ctx, "results", total)
	return &SearchResponse{
		Query:   query,
		Results: outcomes,
		Stats: SearchStats{
			DurationMs: time.Since(start).Milliseconds(),
			Total:      total,
		},
	}, nil
}

func (h *controller) SessionAPI(c echo.Context, req SessionRequest) (*models.Snapshot, error) {
	session := h.sessions.Get(req.SessionID)
	if req.Wait {
		if err := session.Wait(c.Request().Context()); err != nil {
			return nil, err
		}
	}
	snap := session.Snapshot()
	return &snap, nil
}

func (h *controller) RecentSearchesAPI(c echo.Context, req RecentSearchesRequest) (*RecentSearchesResponse, error) {
	records, err := h.search.RecentSearches(c.Request().Context(), req.Limit)
	if err != nil {
		return nil, err
	}
	return &RecentSearchesResponse{Searches: records}, nil
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "price-compare",
	})
}
