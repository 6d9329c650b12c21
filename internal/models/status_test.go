package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusRefunded, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusCancelled, OrderStatusRefunded, true},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusRefunded, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusDelivered, true},
		{OrderStatus("Lost"), OrderStatus("Lost"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusConfirmed))
	assert.True(t, PaymentStatusProcessing.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusProcessing))
	assert.True(t, PaymentStatusConfirmed.CanTransitionTo(PaymentStatusRefunded))
	assert.True(t, PaymentStatusCancelled.CanTransitionTo(PaymentStatusCancelled))

	assert.False(t, PaymentStatusConfirmed.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusConfirmed))
	assert.False(t, PaymentStatusCancelled.CanTransitionTo(PaymentStatusProcessing))
	assert.False(t, PaymentStatusProcessing.CanTransitionTo(PaymentStatusPending))
}

func TestParseStatuses(t *testing.T) {
	status, ok := ParseOrderStatus(" shipped ")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, status)

	_, ok = ParseOrderStatus("lost")
	assert.False(t, ok)

	payment, ok := ParsePaymentStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, PaymentStatusConfirmed, payment)

	_, ok = ParsePaymentStatus("")
	assert.False(t, ok)
}

func TestPaymentMethodInitialStatus(t *testing.T) {
	method, ok := ParsePaymentMethod("bkash")
	assert.True(t, ok)
	assert.Equal(t, PaymentMethodBKash, method)
	assert.True(t, method.IsMobileWallet())
	assert.Equal(t, PaymentStatusProcessing, method.InitialStatus())

	assert.False(t, PaymentMethodCashOnDelivery.IsMobileWallet())
	assert.Equal(t, PaymentStatusPending, PaymentMethodCashOnDelivery.InitialStatus())

	_, ok = ParsePaymentMethod("Card")
	assert.False(t, ok)
}

func TestSettledAndShipped(t *testing.T) {
	assert.True(t, PaymentStatusFailed.Settled())
	assert.True(t, PaymentStatusRefunded.Settled())
	assert.False(t, PaymentStatusConfirmed.Settled())

	assert.True(t, OrderStatusDelivered.Shipped())
	assert.False(t, OrderStatusProcessing.Shipped())
}

func TestCartItemSameLine(t *testing.T) {
	item := CartItem{ProductID: [12]byte{1}, Variant: &Variant{Color: "red", Size: "M"}}

	assert.True(t, item.SameLine([12]byte{1}, &Variant{Color: "red", Size: "M"}))
	assert.False(t, item.SameLine([12]byte{1}, &Variant{Color: "red", Size: "L"}))
	assert.False(t, item.SameLine([12]byte{1}, nil))
	assert.False(t, item.SameLine([12]byte{2}, &Variant{Color: "red", Size: "M"}))

	plain := CartItem{ProductID: [12]byte{3}}
	assert.True(t, plain.SameLine([12]byte{3}, &Variant{}))
}
