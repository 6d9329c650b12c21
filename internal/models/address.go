package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the single saved shipping address of a user.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Number    string             `bson:"number" json:"number"`
	Address   string             `bson:"address" json:"address"`
	City      string             `bson:"city" json:"city"`
	Zipcode   string             `bson:"zipcode" json:"zipcode"`
	Region    string             `bson:"region" json:"region"`
	Country   string             `bson:"country" json:"country"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Snapshot copies the address fields an order keeps.
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Name:    a.Name,
		Email:   a.Email,
		Number:  a.Number,
		Address: a.Address,
		City:    a.City,
		Zipcode: a.Zipcode,
		Region:  a.Region,
		Country: a.Country,
	}
}
