package models

// Product is the provider independent listing shown on a result card.
// Values are never mutated once an adapter produced them.
type Product struct {
	Provider string  `json:"provider" bson:"provider"`
	Title    string  `json:"title" bson:"title" validate:"required"`
	Price    string  `json:"price" bson:"price"`
	Rating   float64 `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	Image    string  `json:"image" bson:"image"`
	URL      string  `json:"url" bson:"url" validate:"required,url"`
}
