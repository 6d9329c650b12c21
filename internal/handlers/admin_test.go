package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/payments"
)

func TestParseAdminUpdate(t *testing.T) {
	in, err := parseAdminUpdate(adminUpdateOrderRequest{Status: "shipped", PaymentStatus: "Confirmed"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, *in.Status)
	assert.Equal(t, models.PaymentStatusConfirmed, *in.PaymentStatus)

	in, err = parseAdminUpdate(adminUpdateOrderRequest{PaymentStatus: "refunded"})
	require.NoError(t, err)
	assert.Nil(t, in.Status)

	_, err = parseAdminUpdate(adminUpdateOrderRequest{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = parseAdminUpdate(adminUpdateOrderRequest{Status: "Lost", PaymentStatus: "maybe"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Details, 2)
}

func TestAdminUpdateOrderConflictIs409(t *testing.T) {
	actor := primitive.NewObjectID()
	orderID := primitive.NewObjectID()

	svc := &fakeOrders{adminUpdate: func(a, o primitive.ObjectID, in orders.AdminUpdateInput) (*orders.AdminUpdateResult, error) {
		assert.Equal(t, actor, a)
		assert.Equal(t, orderID, o)
		assert.Equal(t, models.OrderStatusPending, *in.Status)
		return nil, apperr.Conflict("cannot change order status from Delivered to Pending")
	}}
	r := authed(http.MethodPut, "/admin/order/:id", AdminUpdateOrder(svc))

	rec := send(r, http.MethodPut, "/admin/order/"+orderID.Hex(), bearer(t, actor), `{"status":"Pending"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "cannot change order status from Delivered to Pending", decode(t, rec.Body.Bytes()).Error)
}

func TestAdminUpdateOrderReturnsPaymentWhenTouched(t *testing.T) {
	orderID := primitive.NewObjectID()
	svc := &fakeOrders{adminUpdate: func(_, o primitive.ObjectID, in orders.AdminUpdateInput) (*orders.AdminUpdateResult, error) {
		return &orders.AdminUpdateResult{
			Order:   &models.Order{ID: o, Status: models.OrderStatusProcessing},
			Payment: &models.PaymentInfo{Status: *in.PaymentStatus},
		}, nil
	}}
	r := authed(http.MethodPut, "/admin/order/:id", AdminUpdateOrder(svc))

	rec := send(r, http.MethodPut, "/admin/order/"+orderID.Hex(), bearer(t, primitive.NewObjectID()), `{"paymentStatus":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"payment"`)
	assert.Contains(t, rec.Body.String(), `"confirmed"`)
}

func TestAdminGetOrderMalformedID(t *testing.T) {
	r := authed(http.MethodGet, "/admin/order/:id", AdminGetOrder(&fakeOrders{}))

	rec := send(r, http.MethodGet, "/admin/order/not-an-id", bearer(t, primitive.NewObjectID()), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminListOrdersForwardsFilter(t *testing.T) {
	svc := &fakeOrders{list: func(f orders.ListFilter) ([]orders.View, int64, error) {
		assert.Equal(t, int64(2), f.Page)
		assert.Equal(t, int64(100), f.Limit)
		assert.Equal(t, orders.SearchByTrxID, f.SearchBy)
		assert.Equal(t, "TX1", f.Search)
		return nil, 0, nil
	}}
	r := authed(http.MethodGet, "/admin/orders", AdminListOrders(svc))

	rec := send(r, http.MethodGet, "/admin/orders?page=2&limit=500&searchBy=trxId&search=TX1", bearer(t, primitive.NewObjectID()), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(decode(t, rec.Body.Bytes()).Data))
}

func TestAdminUpdateTransactionValidatesStatus(t *testing.T) {
	svc := &fakePayments{setStatus: func(_, _ primitive.ObjectID, next models.PaymentStatus) (*models.PaymentInfo, error) {
		return &models.PaymentInfo{Status: next}, nil
	}}
	r := authed(http.MethodPut, "/admin/transaction/:id", AdminUpdateTransaction(svc))
	path := "/admin/transaction/" + primitive.NewObjectID().Hex()
	auth := bearer(t, primitive.NewObjectID())

	rec := send(r, http.MethodPut, path, auth, `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(r, http.MethodPut, path, auth, `{"status":"FAILED"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failed"`)
}

func TestCreatePaymentForwardsBody(t *testing.T) {
	caller := primitive.NewObjectID()
	orderID := primitive.NewObjectID()
	svc := &fakePayments{create: func(c primitive.ObjectID, in payments.CreateInput) (*models.PaymentInfo, error) {
		assert.Equal(t, caller, c)
		assert.Equal(t, orderID, in.OrderID)
		assert.Equal(t, "bKash", in.Method)
		assert.Equal(t, "TX9", in.TrxID)
		assert.Nil(t, in.Amount)
		return &models.PaymentInfo{ID: primitive.NewObjectID(), OrderID: in.OrderID}, nil
	}}
	r := authed(http.MethodPost, "/payment-create", CreatePayment(svc))

	body := `{"orderId":"` + orderID.Hex() + `","method":"bKash","trxId":"TX9"}`
	rec := send(r, http.MethodPost, "/payment-create", bearer(t, caller), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode(t, rec.Body.Bytes())
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Payment), orderID.Hex())
}

func TestLowStockThreshold(t *testing.T) {
	var seen []int
	store := &fakeCatalog{lowStock: func(threshold int) ([]models.Product, error) {
		seen = append(seen, threshold)
		return nil, nil
	}}
	r := authed(http.MethodGet, "/low", LowStockProducts(store, 10))
	auth := bearer(t, primitive.NewObjectID())

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/low", auth, "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/low?threshold=3", auth, "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/low?threshold=-1", auth, "").Code)
	assert.Equal(t, []int{10, 3}, seen)
}
