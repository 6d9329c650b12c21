package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/checkout"
	"storefront/internal/models"
)

func TestPlaceOrderReturnsLinkedRecords(t *testing.T) {
	caller := primitive.NewObjectID()
	svc := fakeCheckout(func(userID primitive.ObjectID, req checkout.Request) (*checkout.Result, error) {
		assert.Equal(t, caller, userID)
		assert.Equal(t, "MobileWallet", req.PaymentMethod)
		assert.Equal(t, "Nagad", req.Provider)
		assert.Equal(t, "Dhaka", req.ShippingAddress.City)
		assert.Empty(t, req.Items)

		paymentID := primitive.NewObjectID()
		return &checkout.Result{
			Order:        &models.Order{ID: primitive.NewObjectID(), PaymentInfo: &paymentID},
			Payment:      &models.PaymentInfo{ID: paymentID, Status: models.PaymentStatusProcessing},
			AddressSaved: true,
		}, nil
	})
	r := authed(http.MethodPost, "/checkout", PlaceOrder(svc))

	body := `{"paymentMethod":"MobileWallet","provider":"Nagad","trxId":"N1","shippingAddress":{"city":"Dhaka"}}`
	rec := send(r, http.MethodPost, "/checkout", bearer(t, caller), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"addressSaved":true`)
	assert.Contains(t, rec.Body.String(), `"processing"`)
}

func TestPlaceOrderSurfacesPreconditionProblems(t *testing.T) {
	svc := fakeCheckout(func(primitive.ObjectID, checkout.Request) (*checkout.Result, error) {
		return nil, apperr.Validation("checkout is incomplete", "cart is empty", "trxId is required for mobile wallet payments")
	})
	r := authed(http.MethodPost, "/checkout", PlaceOrder(svc))

	rec := send(r, http.MethodPost, "/checkout", bearer(t, primitive.NewObjectID()), `{"paymentMethod":"bKash"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec.Body.Bytes())
	assert.Equal(t, "checkout is incomplete", env.Error)
	assert.Equal(t, []string{"cart is empty", "trxId is required for mobile wallet payments"}, env.Details)
}

func TestPlaceOrderRejectsMalformedJSON(t *testing.T) {
	r := authed(http.MethodPost, "/checkout", PlaceOrder(fakeCheckout(nil)))

	rec := send(r, http.MethodPost, "/checkout", bearer(t, primitive.NewObjectID()), `{"items":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decode(t, rec.Body.Bytes()).Error)
}
