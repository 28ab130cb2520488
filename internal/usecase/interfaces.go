package usecase

import (
	"context"
	"time"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
)

// ProviderOutcome is the settled result of one provider for one search.
type ProviderOutcome struct {
	Provider providers.ProviderType `json:"provider"`
	Label    string                 `json:"label"`
	State    models.ResultState     `json:"state"`
	Duration time.Duration          `json:"-"`
}

type SearchUsecase interface {
	// NormalizeQuery trims the query and checks its length.
	NormalizeQuery(query string) (string, error)
	// Providers lists the providers a search fans out to, in column order.
	Providers() []providers.Provider
	// Search runs every provider concurrently. onResult, when set, is called
	// once per provider as soon as that provider settles, never concurrently.
	// The returned outcomes are in provider order.
	Search(ctx context.Context, query string, onResult func(ProviderOutcome)) ([]ProviderOutcome, error)
	RecentSearches(ctx context.Context, limit int) ([]models.SearchRecord, error)
	// Shutdown waits for background persistence started by Search.
	Shutdown(ctx context.Context) error
}

// SearchController owns the search state of one browser session.
type SearchController interface {
	// Search blanks every column, cancels the previous search and starts a
	// new one in the background. It returns the token of the new search.
	Search(query string) (uint64, error)
	Snapshot() models.Snapshot
	// Wait blocks until the current search settled or ctx is done.
	Wait(ctx context.Context) error
	Close()
	LastActive() time.Time
}

type SessionStore interface {
	Get(id string) SearchController
	Sweep(idle time.Duration) int
	Len() int
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
