package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentInfo is one payment attempt against an order.
type PaymentInfo struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID       primitive.ObjectID `bson:"orderId" json:"orderId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Method        PaymentMethod      `bson:"method" json:"method"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	TrxID         string             `bson:"trxId,omitempty" json:"trxId,omitempty"`
	PaymentDate   time.Time          `bson:"paymentDate" json:"paymentDate"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	StatusHistory []StatusChange     `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
