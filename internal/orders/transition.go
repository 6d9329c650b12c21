package orders

import (
	"storefront/internal/apperr"
	"storefront/internal/models"
)

// statusPlan is the outcome of checking an order status change.
type statusPlan struct {
	noop         bool
	releaseStock bool
}

// planStatusChange applies the order state machine plus the payment cross
// rule: goods never ship against a payment that will not be collected.
// payment is nil when the order has none.
func planStatusChange(order models.Order, next models.OrderStatus, payment *models.PaymentStatus) (statusPlan, error) {
	if !next.IsValid() {
		return statusPlan{}, apperr.Validation("invalid order status", "status "+string(next)+" is not recognised")
	}
	if order.Status == next {
		return statusPlan{noop: true}, nil
	}
	if !order.Status.CanTransitionTo(next) {
		return statusPlan{}, apperr.Conflict("order cannot move from " + string(order.Status) + " to " + string(next))
	}
	if next.Shipped() && payment != nil && payment.Settled() {
		return statusPlan{}, apperr.Conflict("order cannot be " + string(next) + " while payment is " + string(*payment))
	}

	release := false
	switch next {
	case models.OrderStatusCancelled:
		release = true
	case models.OrderStatusRefunded:
		release = !order.Status.Shipped()
	}
	return statusPlan{releaseStock: release && !order.StockReleased}, nil
}
