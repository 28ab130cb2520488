package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
)

type searchController struct {
	sessionID string
	search    SearchUsecase
	now       func() time.Time

	mu         sync.Mutex
	query      string
	token      uint64
	states     []models.ProviderState
	index      map[providers.ProviderType]int
	cancel     context.CancelFunc
	done       chan struct{}
	lastActive time.Time
}

// NewSearchController creates an idle controller with one column per provider.
func NewSearchController(sessionID string, search SearchUsecase) SearchController {
	list := search.Providers()
	c := &searchController{
		sessionID: sessionID,
		search:    search,
		now:       time.Now,
		states:    make([]models.ProviderState, len(list)),
		index:     make(map[providers.ProviderType]int, len(list)),
	}
	for i, p := range list {
		c.states[i] = models.ProviderState{
			Provider: string(p.Type()),
			Label:    p.Label() + " Results",
			State:    models.IdleState(),
		}
		c.index[p.Type()] = i
	}
	c.lastActive = c.now()
	return c
}

func (c *searchController) Search(query string) (uint64, error) {
	q, err := c.search.NormalizeQuery(query)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.token++
	token := c.token
	if c.cancel != nil {
		c.cancel()
	}
	c.query = q
	for i := range c.states {
		c.states[i].State = models.LoadingState()
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.lastActive = c.now()
	c.mu.Unlock()

	log.Infow(ctx, "search started", "session_id", c.sessionID, "token", token, "query", q)
	go func() {
		defer close(done)
		defer cancel()
		_, err := c.search.Search(ctx, q, func(o ProviderOutcome) {
			c.apply(ctx, token, o)
		})
		if err != nil {
			log.Errorw(ctx, "search failed", "session_id", c.sessionID, "token", token, "error", err)
		}
		c.settle(token)
	}()
	return token, nil
}

func (c *searchController) apply(ctx context.Context, token uint64, o ProviderOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		log.Debugw(ctx, "discard stale result",
			"session_id", c.sessionID,
			"provider", o.Provider,
			"token", token,
			"current", c.token,
		)
		return
	}
	if i, ok := c.index[o.Provider]; ok {
		c.states[i].State = o.State
	}
}

// settle fails any column the search left loading, so loading always
// clears once the current search is joined.
func (c *searchController) settle(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return
	}
	for i := range c.states {
		if c.states[i].State.IsPending() {
			c.states[i].State = models.FailedState("unavailable")
		}
	}
}

func (c *searchController) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = c.now()

	results := make([]models.ProviderState, len(c.states))
	loading := false
	for i, s := range c.states {
		s.State.Items = slices.Clone(s.State.Items)
		results[i] = s
		loading = loading || s.State.IsPending()
	}
	return models.Snapshot{
		Query:   c.query,
		Token:   c.token,
		Loading: loading,
		Results: results,
	}
}

func (c *searchController) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the in-flight search. Late results are then discarded
// because the token no longer matches.
func (c *searchController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.token++
}

func (c *searchController) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}
