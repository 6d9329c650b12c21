package payments

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// CreateInput is a payment attempt as submitted by the customer. Amount may be
// omitted, in which case the order grand total is charged.
type CreateInput struct {
	OrderID  primitive.ObjectID
	Method   string
	Amount   *float64
	Currency string
	TrxID    string
	Notes    string
	Status   string
}

// prepare validates in against the order it pays for and builds the record.
// The initial status is derived from the method; a client supplied status is
// only accepted when it agrees.
func prepare(in CreateInput, order models.Order, defaultCurrency string, now time.Time) (models.PaymentInfo, error) {
	var problems []string

	method, ok := models.ParsePaymentMethod(in.Method)
	if !ok {
		if strings.TrimSpace(in.Method) == "" {
			problems = append(problems, "method is required")
		} else {
			problems = append(problems, "method must be one of bKash, Nagad, Rocket, CashOnDelivery")
		}
	}

	trxID := strings.TrimSpace(in.TrxID)
	if ok && method.IsMobileWallet() && trxID == "" {
		problems = append(problems, "trxId is required for "+string(method))
	}

	grandTotal := decimal.NewFromFloat(order.TotalAmount).Add(decimal.NewFromFloat(order.ShippingFee)).Round(2)
	amount := grandTotal
	if in.Amount != nil {
		amount = decimal.NewFromFloat(*in.Amount).Round(2)
		switch {
		case amount.IsNegative():
			problems = append(problems, "amount cannot be negative")
		case !amount.Equal(grandTotal):
			problems = append(problems, "amount must equal order total "+grandTotal.StringFixed(2))
		}
	}

	status := method.InitialStatus()
	if raw := strings.TrimSpace(in.Status); raw != "" && ok {
		requested, valid := models.ParsePaymentStatus(raw)
		if !valid || requested != status {
			problems = append(problems, "status must be "+string(status)+" for "+string(method))
		}
	}

	if len(problems) > 0 {
		return models.PaymentInfo{}, apperr.Validation("invalid payment", problems...)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return models.PaymentInfo{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Method:      method,
		Status:      status,
		Amount:      amount.InexactFloat64(),
		Currency:    currency,
		TrxID:       trxID,
		PaymentDate: now,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
