package models

import "strings"

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusRefunded   OrderStatus = "Refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
	OrderStatusRefunded:   {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether an admin may move an order from s to next.
// Staying in the same status is always allowed so updates can be retried.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return s.IsValid()
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Shipped reports whether goods have left the warehouse in this status.
func (s OrderStatus) Shipped() bool {
	return s == OrderStatusShipped || s == OrderStatusDelivered
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	value := strings.TrimSpace(raw)
	for status := range orderTransitions {
		if strings.EqualFold(string(status), value) {
			return status, true
		}
	}
	return "", false
}

// PaymentStatus is the state of a single payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusConfirmed  PaymentStatus = "confirmed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusConfirmed, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusProcessing: {PaymentStatusConfirmed, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusConfirmed:  {PaymentStatusRefunded},
	PaymentStatusFailed:     {PaymentStatusProcessing, PaymentStatusCancelled},
	PaymentStatusCancelled:  {},
	PaymentStatusRefunded:   {},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return s.IsValid()
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Settled reports whether no money is expected from the customer anymore.
func (s PaymentStatus) Settled() bool {
	return s == PaymentStatusFailed || s == PaymentStatusCancelled || s == PaymentStatusRefunded
}

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	status := PaymentStatus(value)
	return status, status.IsValid()
}

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	PaymentMethodBKash          PaymentMethod = "bKash"
	PaymentMethodNagad          PaymentMethod = "Nagad"
	PaymentMethodRocket         PaymentMethod = "Rocket"
	PaymentMethodCashOnDelivery PaymentMethod = "CashOnDelivery"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodBKash,
	PaymentMethodNagad,
	PaymentMethodRocket,
	PaymentMethodCashOnDelivery,
}

func (m PaymentMethod) IsValid() bool {
	for _, known := range paymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// IsMobileWallet reports whether the method settles through a wallet
// transaction id that must be reconciled.
func (m PaymentMethod) IsMobileWallet() bool {
	return m == PaymentMethodBKash || m == PaymentMethodNagad || m == PaymentMethodRocket
}

// InitialStatus is the status a fresh payment of this method starts in.
func (m PaymentMethod) InitialStatus() PaymentStatus {
	if m.IsMobileWallet() {
		return PaymentStatusProcessing
	}
	return PaymentStatusPending
}

func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	value := strings.TrimSpace(raw)
	for _, known := range paymentMethods {
		if strings.EqualFold(string(known), value) {
			return known, true
		}
	}
	return "", false
}

// Role is the privilege level of a user account.
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleManager || r == RoleAdmin
}

// IsStaff reports whether the role may use the dashboard endpoints.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

func (s AccountStatus) IsValid() bool {
	return s == AccountActive || s == AccountSuspended || s == AccountDeleted
}
