package amazon

// Product is one raw listing under data.products of the Amazon search
// response. Fields the card does not use are not decoded.
type Product struct {
	ASIN         string `json:"asin"`
	ProductTitle string `json:"product_title"`
	ProductPrice string `json:"product_price"`
	// ProductStarRating is numeric text ("4.3") but some listings send a
	// bare number or null.
	ProductStarRating any    `json:"product_star_rating"`
	ProductPhoto      string `json:"product_photo"`
	ProductURL        string `json:"product_url"`
}

// SearchParams are the fixed query parameters sent with every search.
type SearchParams struct {
	Query   string
	Page    int
	Country string
	SortBy  string
}
