package flipkart

import (
	"context"

	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
)

const productsPath = "products"

type provider struct {
	client Client
	page   int
}

func NewProvider(client Client, conf *config.Config) providers.Provider {
	return &provider{client: client, page: conf.Flipkart.Page}
}

func (p *provider) Type() providers.ProviderType { return providers.ProviderTypeFlipkart }

func (p *provider) Label() string { return "Flipkart" }

func (p *provider) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	body, err := p.client.Search(ctx, SearchParams{Query: query, Page: p.page})
	if err != nil {
		return nil, err
	}

	records, err := providers.Records(body, productsPath)
	if err != nil {
		return nil, providers.NewProviderError(providers.ProviderTypeFlipkart, "search", "read response", err)
	}
	products, err := providers.Collect(ctx, providers.ProviderTypeFlipkart, records, limit, Adapt)
	if err != nil {
		return nil, providers.NewProviderError(providers.ProviderTypeFlipkart, "search", "adapt listings", err)
	}
	return products, nil
}
