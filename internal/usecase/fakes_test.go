package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
	"github.com/stretchr/testify/require"
)

// fakeProvider answers every search with its search func.
type fakeProvider struct {
	typ    providers.ProviderType
	label  string
	search func(ctx context.Context, query string, limit int) ([]models.Product, error)
}

func (p *fakeProvider) Type() providers.ProviderType { return p.typ }
func (p *fakeProvider) Label() string                { return p.label }
func (p *fakeProvider) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return p.search(ctx, query, limit)
}

func returning(items []models.Product, err error) func(context.Context, string, int) ([]models.Product, error) {
	return func(context.Context, string, int) ([]models.Product, error) {
		return items, err
	}
}

func blockingUntil(release <-chan struct{}, items []models.Product) func(context.Context, string, int) ([]models.Product, error) {
	return func(ctx context.Context, _ string, _ int) ([]models.Product, error) {
		select {
		case <-release:
			return items, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type fakeHistory struct {
	mu      sync.Mutex
	records []models.SearchRecord
}

func (h *fakeHistory) Save(_ context.Context, r *models.SearchRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, *r)
	return nil
}

func (h *fakeHistory) Recent(_ context.Context, limit int) ([]models.SearchRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records[:min(limit, len(h.records))], nil
}

func (h *fakeHistory) saved() []models.SearchRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.SearchRecord(nil), h.records...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.SearchEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e models.SearchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []models.SearchEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.SearchEvent(nil), p.events...)
}

var errNetwork = errors.New("dial tcp: connection refused")

func product(provider, title string) models.Product {
	return models.Product{
		Provider: provider,
		Title:    title,
		Price:    "₹1",
		URL:      "https://example.com/" + title,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			Limit:           5,
			MaxQueryLength:  200,
			ProviderTimeout: 2 * time.Second,
		},
		Session: config.SessionConfig{
			TTL:           time.Minute,
			SweepInterval: time.Minute,
		},
	}
}

type fixture struct {
	usecase   SearchUsecase
	history   *fakeHistory
	publisher *fakePublisher
}

func newFixture(t *testing.T, amazon, flipkart *fakeProvider) *fixture {
	t.Helper()
	reg := providers.NewRegistry()
	require.NoError(t, reg.Register(amazon))
	require.NoError(t, reg.Register(flipkart))

	f := &fixture{history: &fakeHistory{}, publisher: &fakePublisher{}}
	uc, err := NewSearchUsecase(testConfig(), reg, f.history, f.publisher)
	require.NoError(t, err)
	f.usecase = uc
	t.Cleanup(func() {
		_ = uc.Shutdown(context.Background())
	})
	return f
}

func amazonWith(fn func(context.Context, string, int) ([]models.Product, error)) *fakeProvider {
	return &fakeProvider{typ: providers.ProviderTypeAmazon, label: "Amazon", search: fn}
}

func flipkartWith(fn func(context.Context, string, int) ([]models.Product, error)) *fakeProvider {
	return &fakeProvider{typ: providers.ProviderTypeFlipkart, label: "Flipkart", search: fn}
}
