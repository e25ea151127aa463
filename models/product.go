package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	MainImage       string             `bson:"mainImg" json:"mainImg"`
	Carousel        []string           `bson:"carousel" json:"carousel"`
	Sizes           []string           `bson:"sizes" json:"sizes"`
	Category        string             `bson:"category" json:"category"`
	Gender          string             `bson:"gender" json:"gender"`
	Price           float64            `bson:"price" json:"price"`
	DiscountPercent float64            `bson:"discount" json:"discount"`
	Brand           string             `bson:"brand" json:"brand"`
	Rating          float64            `bson:"rating" json:"rating"`
	CountInStock    int                `bson:"countInStock" json:"countInStock"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

type ProductFilter struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Limit    int64
}

const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortPopular   = "popular"
	SortNewest    = "newest"
)
