package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem holds no price; prices are read from the catalog at checkout.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Variant   *Variant           `bson:"variant,omitempty" json:"variant,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// SameLine reports whether two cart entries refer to the same product variant.
func (i CartItem) SameLine(productID primitive.ObjectID, variant *Variant) bool {
	if i.ProductID != productID {
		return false
	}
	if i.Variant.IsZero() || variant.IsZero() {
		return i.Variant.IsZero() && variant.IsZero()
	}
	return *i.Variant == *variant
}

// Cart is the server owned cart of one user.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
