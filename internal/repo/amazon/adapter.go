package amazon

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/spf13/cast"
)

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)`)

// Adapt turns a raw Amazon listing into a Product. The price text is kept
// as the upstream formatted it.
func Adapt(raw Product) (models.Product, error) {
	if strings.TrimSpace(raw.ProductTitle) == "" {
		return models.Product{}, errors.New("missing product_title")
	}
	rating, err := parseRating(raw.ProductStarRating)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		Title:  raw.ProductTitle,
		Price:  raw.ProductPrice,
		Rating: rating,
		Image:  raw.ProductPhoto,
		URL:    raw.ProductURL,
	}, nil
}

// parseRating reads the leading decimal of the rating text, so "4.3 out of
// 5" gives 4.3. A missing rating is 0.
func parseRating(v any) (float64, error) {
	switch r := v.(type) {
	case nil:
		return 0, nil
	case string:
		if strings.TrimSpace(r) == "" {
			return 0, nil
		}
		m := leadingNumber.FindString(r)
		if m == "" {
			return 0, fmt.Errorf("product_star_rating %q is not numeric", r)
		}
		return cast.ToFloat64E(strings.TrimSpace(m))
	default:
		f, err := cast.ToFloat64E(r)
		if err != nil {
			return 0, fmt.Errorf("product_star_rating: %w", err)
		}
		return f, nil
	}
}
