package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant names a color/size combination of a product.
type Variant struct {
	Color string `bson:"color,omitempty" json:"color,omitempty"`
	Size  string `bson:"size,omitempty" json:"size,omitempty"`
}

func (v *Variant) IsZero() bool {
	return v == nil || (v.Color == "" && v.Size == "")
}

// OrderItem is a line of an order. UnitPrice is the price at order time and is
// never refreshed from the catalog.
type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Name       string             `bson:"name" json:"name"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	UnitPrice  float64            `bson:"unitPrice" json:"unitPrice"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	Variant    *Variant           `bson:"variant,omitempty" json:"variant,omitempty"`
}

// ShippingAddress is a snapshot of where an order ships, copied at checkout.
type ShippingAddress struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Number  string `bson:"number" json:"number"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	Zipcode string `bson:"zipcode" json:"zipcode"`
	Region  string `bson:"region" json:"region"`
	Country string `bson:"country" json:"country"`
}

// StatusChange records one admin driven status change.
type StatusChange struct {
	From      string             `bson:"from" json:"from"`
	To        string             `bson:"to" json:"to"`
	ChangedBy primitive.ObjectID `bson:"changedBy" json:"changedBy"`
	ChangedAt time.Time          `bson:"changedAt" json:"changedAt"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	OrderDate       time.Time           `bson:"orderDate" json:"orderDate"`
	Status          OrderStatus         `bson:"status" json:"status"`
	TotalAmount     float64             `bson:"totalAmount" json:"totalAmount"`
	ShippingFee     float64             `bson:"shippingFee" json:"shippingFee"`
	ShippingAddress ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	PaymentInfo     *primitive.ObjectID `bson:"paymentInfo,omitempty" json:"paymentInfo,omitempty"`
	Items           []OrderItem         `bson:"items" json:"items"`
	StatusHistory   []StatusChange      `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`
	StockReleased   bool                `bson:"stockReleased" json:"-"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// GrandTotal is what the customer pays: goods plus shipping.
func (o Order) GrandTotal() float64 {
	return o.TotalAmount + o.ShippingFee
}
