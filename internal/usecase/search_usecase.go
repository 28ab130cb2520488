package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-playground/validator/v10"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/kafka"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
	"github.com/nguyentranbao-ct/price-compare/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const persistTimeout = 5 * time.Second

type searchUsecase struct {
	registry  providers.Registry
	history   mongodb.SearchHistoryRepository
	publisher kafka.EventPublisher
	validate  *validator.Validate
	metrics   *prometheus.HistogramVec
	conf      config.SearchConfig
	now       func() time.Time

	background sync.WaitGroup
}

func NewSearchUsecase(
	conf *config.Config,
	registry providers.Registry,
	history mongodb.SearchHistoryRepository,
	publisher kafka.EventPublisher,
) (SearchUsecase, error) {
	metrics, err := util.GetHistogramVec("provider_search_duration_seconds",
		"Duration of one provider search, by outcome.", "provider", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &searchUsecase{
		registry:  registry,
		history:   history,
		publisher: publisher,
		validate:  validator.New(),
		metrics:   metrics,
		conf:      conf.Search,
		now:       time.Now,
	}, nil
}

func (uc *searchUsecase) NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	rule := fmt.Sprintf("required,max=%d", uc.conf.MaxQueryLength)
	if err := uc.validate.Var(q, rule); err != nil {
		return "", fmt.Errorf("%w: must be 1 to %d characters", models.ErrInvalidQuery, uc.conf.MaxQueryLength)
	}
	return q, nil
}

func (uc *searchUsecase) Providers() []providers.Provider {
	return uc.registry.List()
}

func (uc *searchUsecase) Search(ctx context.Context, query string, onResult func(ProviderOutcome)) ([]ProviderOutcome, error) {
	q, err := uc.NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	start := uc.now()
	list := uc.registry.List()
	outcomes := make([]ProviderOutcome, len(list))

	var mu sync.Mutex
	group := new(errgroup.Group)
	for i, p := range list {
		group.Go(func() error {
			outcome := uc.searchProvider(ctx, p, q)
			outcomes[i] = outcome
			if onResult != nil {
				mu.Lock()
				defer mu.Unlock()
				onResult(outcome)
			}
			return nil
		})
	}
	_ = group.Wait()

	record := &models.SearchRecord{
		Query:      q,
		Providers:  summarize(outcomes),
		DurationMs: uc.now().Sub(start).Milliseconds(),
		CreatedAt:  start,
	}
	// canceled searches were superseded, nobody saw their result
	if ctx.Err() == nil {
		uc.persist(ctx, record)
	}
	return outcomes, nil
}

func (uc *searchUsecase) searchProvider(ctx context.Context, p providers.Provider, query string) ProviderOutcome {
	ctx, cancel := context.WithTimeout(ctx, uc.conf.ProviderTimeout)
	defer cancel()

	start := time.Now()
	items, err := p.Search(ctx, query, uc.conf.Limit)
	duration := time.Since(start)

	outcome := ProviderOutcome{
		Provider: p.Type(),
		Label:    p.Label(),
		Duration: duration,
	}
	if err != nil {
		outcome.State = models.FailedState(providers.Reason(err))
		log.Errorw(ctx, "provider search failed",
			"provider", p.Type(),
			"query", query,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	} else {
		outcome.State = models.ItemsState(items)
		log.Infow(ctx, "provider search done",
			"provider", p.Type(),
			"query", query,
			"count", len(items),
			"duration_ms", duration.Milliseconds(),
		)
	}

	uc.metrics.
		WithLabelValues(string(p.Type()), string(outcome.State.Status)).
		Observe(duration.Seconds())
	return outcome
}

// persist saves the record and publishes the event without holding up the
// caller. Failures are only logged.
func (uc *searchUsecase) persist(ctx context.Context, record *models.SearchRecord) {
	ctx = context.WithoutCancel(ctx)
	uc.background.Add(1)
	go func() {
		defer uc.background.Done()
		ctx, cancel := context.WithTimeout(ctx, persistTimeout)
		defer cancel()

		if err := uc.history.Save(ctx, record); err != nil {
			log.Errorw(ctx, "save search record failed", "query", record.Query, "error", err)
		}
		if err := uc.publisher.Publish(ctx, models.NewSearchEvent(*record)); err != nil {
			log.Errorw(ctx, "publish search event failed", "query", record.Query, "error", err)
		}
	}()
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

func (uc *searchUsecase) RecentSearches(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	return uc.history.Recent(ctx, limit)
}

func (uc *searchUsecase) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func summarize(outcomes []ProviderOutcome) []models.ProviderSummary {
	return util.ConvertList(outcomes, func(o ProviderOutcome) models.ProviderSummary {
		return models.ProviderSummary{
			Provider:   string(o.Provider),
			Status:     o.State.Status,
			Count:      len(o.State.Items),
			Reason:     o.State.Reason,
			DurationMs: o.Duration.Milliseconds(),
		}
	})
}
