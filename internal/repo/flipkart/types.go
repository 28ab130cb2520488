package flipkart

import "github.com/shopspring/decimal"

// Product is one raw listing under products of the Flipkart search response.
type Product struct {
	PID    string           `json:"pid"`
	Title  string           `json:"title"`
	Price  *decimal.Decimal `json:"price"`
	Rating struct {
		Average *float64 `json:"average"`
		Count   int      `json:"count"`
	} `json:"rating"`
	Images []string `json:"images"`
	URL    string   `json:"url"`
}

type SearchParams struct {
	Query string
	Page  int
}
