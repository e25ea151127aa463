package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a purchase record. Everything except Status and DeliveryDate is
// a snapshot taken when the order was created.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"userId" json:"userId"`
	CustomerName    string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Mobile          string             `bson:"mobile" json:"mobile"`
	Address         string             `bson:"address" json:"address"`
	Pincode         string             `bson:"pincode" json:"pincode"`
	ProductID       string             `bson:"productId,omitempty" json:"productId,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	MainImage       string             `bson:"mainImg" json:"mainImg"`
	Size            string             `bson:"size,omitempty" json:"size,omitempty"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	UnitPrice       float64            `bson:"price" json:"price"`
	DiscountPercent float64            `bson:"discount" json:"discount"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	OrderDate       time.Time          `bson:"orderDate" json:"orderDate"`
	DeliveryDate    *time.Time         `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	Status          OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	CheckoutID      string             `bson:"checkoutId,omitempty" json:"checkoutId,omitempty"`
}
