package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a user's cart. A line is identified by
// (UserID, Title, Size); Size is empty for products without sizes.
type CartItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	ProductID       string             `bson:"productId,omitempty" json:"productId,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	MainImage       string             `bson:"mainImg" json:"mainImg"`
	Size            string             `bson:"size" json:"size,omitempty"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	UnitPrice       float64            `bson:"price" json:"price"`
	DiscountPercent float64            `bson:"discount" json:"discount"`
	AddedAt         time.Time          `bson:"addedAt" json:"addedAt"`
}
