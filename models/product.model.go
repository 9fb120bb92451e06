package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	OfferPrice  float64            `bson:"offer_price" json:"offerPrice"`
	Images      []string           `bson:"images" json:"image"`
	CreatedAt   time.Time          `bson:"created_at" json:"date"`
}
