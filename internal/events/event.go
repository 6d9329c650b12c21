package events

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	OrderCreated         Type = "order.created"
	OrderStatusChanged   Type = "order.status_changed"
	PaymentCreated       Type = "payment.created"
	PaymentStatusChanged Type = "payment.status_changed"
	CheckoutCompleted    Type = "checkout.completed"
)

// Event is the payload written to kafka and pushed to the admin feed.
type Event struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	OrderID        string    `json:"orderId,omitempty"`
	PaymentID      string    `json:"paymentId,omitempty"`
	UserID         string    `json:"userId,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	Amount         float64   `json:"amount,omitempty"`
	ChangedBy      string    `json:"changedBy,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

func New(t Type) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// Key groups events of one order on the same partition.
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.PaymentID
}
