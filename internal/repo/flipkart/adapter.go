package flipkart

import (
	"errors"
	"strings"

	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/pkg/util"
)

const currencySymbol = "₹"

var (
	errNoImages = errors.New("no images")
	errNoPrice  = errors.New("missing price")
)

// Adapt turns a raw Flipkart listing into a Product. The price keeps the
// upstream digits, so 499 becomes "₹499" and 499.5 becomes "₹499.5".
func Adapt(raw Product) (models.Product, error) {
	if strings.TrimSpace(raw.Title) == "" {
		return models.Product{}, errors.New("missing title")
	}
	if len(raw.Images) == 0 {
		return models.Product{}, errNoImages
	}
	if raw.Price == nil {
		return models.Product{}, errNoPrice
	}
	return models.Product{
		Title:  raw.Title,
		Price:  currencySymbol + raw.Price.String(),
		Rating: util.Val(raw.Rating.Average),
		Image:  raw.Images[0],
		URL:    raw.URL,
	}, nil
}
