package providers

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/tidwall/gjson"
)

var validate = validator.New()

// Records extracts the listing array found at path in an upstream body.
// A missing path or a non-array value is a malformed payload.
func Records(body []byte, path string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedPayload)
	}
	res := gjson.GetBytes(body, path)
	if !res.Exists() {
		return nil, fmt.Errorf("%w: %q not found", ErrMalformedPayload, path)
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: %q is %s, not an array", ErrMalformedPayload, path, res.Type)
	}
	return res.Array(), nil
}

// Collect decodes and adapts records in upstream order, skipping the ones
// that fail, and stops once limit products were produced. It fails only when
// there were records but none of them could be used.
func Collect[R any](
	ctx context.Context,
	provider ProviderType,
	records []gjson.Result,
	limit int,
	adapt func(R) (models.Product, error),
) ([]models.Product, error) {
	products := make([]models.Product, 0, min(limit, len(records)))
	var firstErr error
	for i, rec := range records {
		if len(products) >= limit {
			break
		}
		p, err := adaptRecord(rec, adapt)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			log.Warnw(ctx, "skip listing", "provider", provider, "index", i, "error", err)
			continue
		}
		p.Provider = string(provider)
		products = append(products, p)
	}

	if len(products) == 0 && firstErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoUsableListing, firstErr)
	}
	return products, nil
}

func adaptRecord[R any](rec gjson.Result, adapt func(R) (models.Product, error)) (models.Product, error) {
	var raw R
	if err := json.Unmarshal([]byte(rec.Raw), &raw); err != nil {
		return models.Product{}, fmt.Errorf("decode listing: %w", err)
	}
	p, err := adapt(raw)
	if err != nil {
		return models.Product{}, err
	}
	if err := validate.Struct(p); err != nil {
		return models.Product{}, fmt.Errorf("invalid listing: %w", err)
	}
	return p, nil
}
