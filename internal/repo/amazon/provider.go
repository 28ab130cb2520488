package amazon

import (
	"context"

	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
)

const (
	label        = "Amazon"
	productsPath = "data.products"
)

type provider struct {
	client  Client
	page    int
	country string
	sortBy  string
}

func NewProvider(client Client, conf *config.Config) providers.Provider {
	return &provider{
		client:  client,
		page:    conf.Amazon.Page,
		country: conf.Amazon.Country,
		sortBy:  conf.Amazon.SortBy,
	}
}

func (p *provider) Type() providers.ProviderType {
	return providers.ProviderTypeAmazon
}

func (p *provider) Label() string {
	return label
}

func (p *provider) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	body, err := p.client.Search(ctx, SearchParams{
		Query:   query,
		Page:    p.page,
		Country: p.country,
		SortBy:  p.sortBy,
	})
	if err != nil {
		return nil, err
	}

	records, err := providers.Records(body, productsPath)
	if err != nil {
		return nil, providers.NewProviderError(providers.ProviderTypeAmazon, "search", "read response", err)
	}
	products, err := providers.Collect(ctx, providers.ProviderTypeAmazon, records, limit, Adapt)
	if err != nil {
		return nil, providers.NewProviderError(providers.ProviderTypeAmazon, "search", "adapt listings", err)
	}
	return products, nil
}
