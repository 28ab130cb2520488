package flipkart

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/repo/providers"
	"github.com/nguyentranbao-ct/price-compare/pkg/util"
)

const searchPath = "/product-search"

type Client interface {
	Search(ctx context.Context, params SearchParams) ([]byte, error)
}

type client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(conf *config.Config) Client {
	cfg := conf.Flipkart
	return &client{
		http: util.NewRestyClient(util.RestyOptions{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			RetryCount: cfg.Retries,
			Headers:    providers.RapidAPIHeaders(cfg.APIKey, cfg.Host),
		}),
		apiKey: cfg.APIKey,
	}
}

func (c *client) Search(ctx context.Context, params SearchParams) ([]byte, error) {
	if c.apiKey == "" {
		return nil, providers.NewProviderError(providers.ProviderTypeFlipkart, "search", "cannot call upstream", providers.ErrMissingAPIKey)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", params.Query).
		SetQueryParam("page", strconv.Itoa(params.Page)).
		Get(searchPath)
	if err != nil {
		return nil, providers.NewProviderError(providers.ProviderTypeFlipkart, "search", "request failed", err)
	}
	if !resp.IsSuccess() {
		return nil, providers.NewProviderError(providers.ProviderTypeFlipkart, "search",
			fmt.Sprintf("status %d", resp.StatusCode()), providers.ErrUpstreamStatus)
	}
	return resp.Body(), nil
}
