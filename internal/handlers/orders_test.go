package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/orders"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
	Data    json.RawMessage `json:"data"`
	Order   json.RawMessage `json:"order"`
	Payment json.RawMessage `json:"payment"`
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestCreateOrderPassesCallerAndLines(t *testing.T) {
	caller := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	var got orders.CreateOrderInput
	svc := &fakeOrders{create: func(c primitive.ObjectID, in orders.CreateOrderInput) (*models.Order, error) {
		assert.Equal(t, caller, c)
		got = in
		return &models.Order{ID: primitive.NewObjectID(), UserID: in.UserID, Status: models.OrderStatusPending}, nil
	}}

	r := authed(http.MethodPost, "/order-create", CreateOrder(svc))
	body := `{"userId":"` + caller.Hex() + `","items":[{"productId":"` + productID.Hex() + `","quantity":2,"variant":{"size":"M"}}],"totalAmount":40}`
	rec := send(r, http.MethodPost, "/order-create", bearer(t, caller), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode(t, rec.Body.Bytes())
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Order), `"status":"Pending"`)
	assert.Empty(t, env.Data)
	assert.Equal(t, caller, got.UserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, productID.Hex(), got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "M", got.Items[0].Variant.Size)
	require.NotNil(t, got.TotalAmount)
	assert.Equal(t, 40.0, *got.TotalAmount)
}

func TestCreateOrderRejectsMalformedUserID(t *testing.T) {
	svc := &fakeOrders{create: func(primitive.ObjectID, orders.CreateOrderInput) (*models.Order, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	r := authed(http.MethodPost, "/order-create", CreateOrder(svc))

	rec := send(r, http.MethodPost, "/order-create", bearer(t, primitive.NewObjectID()), `{"userId":"nope","items":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec.Body.Bytes())
	assert.False(t, env.Success)
	assert.Contains(t, env.Details, "userId must be a valid id")
}

func TestCreateOrderMissingFieldsListsDetails(t *testing.T) {
	r := authed(http.MethodPost, "/order-create", CreateOrder(&fakeOrders{}))

	rec := send(r, http.MethodPost, "/order-create", bearer(t, primitive.NewObjectID()), `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec.Body.Bytes())
	assert.Contains(t, env.Details, "userId is required")
	assert.Contains(t, env.Details, "items is required")
}

func TestCreateOrderWithoutTokenIsUnauthorized(t *testing.T) {
	r := authed(http.MethodPost, "/order-create", CreateOrder(&fakeOrders{}))

	rec := send(r, http.MethodPost, "/order-create", "", `{}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{apperr.Authorization("user mismatch"), http.StatusForbidden, "user mismatch"},
		{apperr.Conflict("insufficient stock"), http.StatusConflict, "insufficient stock"},
		{apperr.NotFound("Order not found or access denied"), http.StatusNotFound, "Order not found or access denied"},
		{apperr.Internal("could not create order", errors.New("socket closed")), http.StatusInternalServerError, "could not create order"},
		{errors.New("raw driver failure"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		svc := &fakeOrders{create: func(primitive.ObjectID, orders.CreateOrderInput) (*models.Order, error) {
			return nil, tc.err
		}}
		caller := primitive.NewObjectID()
		r := authed(http.MethodPost, "/order-create", CreateOrder(svc))
		body := `{"userId":"` + caller.Hex() + `","items":[{"productId":"x","quantity":1}]}`

		rec := send(r, http.MethodPost, "/order-create", bearer(t, caller), body)

		assert.Equal(t, tc.code, rec.Code, tc.msg)
		env := decode(t, rec.Body.Bytes())
		assert.Equal(t, tc.msg, env.Error)
		assert.NotContains(t, rec.Body.String(), "socket closed")
		assert.NotContains(t, rec.Body.String(), "raw driver failure")
	}
}

func TestAttachPaymentInfoUsesCallerAsOwner(t *testing.T) {
	caller := primitive.NewObjectID()
	orderID := primitive.NewObjectID()
	paymentID := primitive.NewObjectID()

	svc := &fakeOrders{attach: func(o, u, p primitive.ObjectID) (*models.Order, error) {
		assert.Equal(t, orderID, o)
		assert.Equal(t, caller, u)
		assert.Equal(t, paymentID, p)
		return &models.Order{ID: o, PaymentInfo: &p}, nil
	}}
	r := authed(http.MethodPut, "/order-update", AttachPaymentInfo(svc))

	body := `{"orderId":"` + orderID.Hex() + `","paymentInfo":"` + paymentID.Hex() + `"}`
	rec := send(r, http.MethodPut, "/order-update", bearer(t, caller), body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(decode(t, rec.Body.Bytes()).Order), paymentID.Hex())
}

func TestAttachPaymentInfoRejectsBadPaymentID(t *testing.T) {
	r := authed(http.MethodPut, "/order-update", AttachPaymentInfo(&fakeOrders{}))

	body := `{"orderId":"` + primitive.NewObjectID().Hex() + `","paymentInfo":"zzz"}`
	rec := send(r, http.MethodPut, "/order-update", bearer(t, primitive.NewObjectID()), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec.Body.Bytes()).Details, "paymentInfo must be a valid id")
}
