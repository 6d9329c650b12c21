package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/users"
)

const testSecret = "handler-secret"

type fakeOrders struct {
	OrderService
	create      func(caller primitive.ObjectID, in orders.CreateOrderInput) (*models.Order, error)
	attach      func(orderID, userID, paymentID primitive.ObjectID) (*models.Order, error)
	adminUpdate func(actor, orderID primitive.ObjectID, in orders.AdminUpdateInput) (*orders.AdminUpdateResult, error)
	list        func(f orders.ListFilter) ([]orders.View, int64, error)
	counts      func() ([]orders.StatusCount, error)
}

func (f *fakeOrders) CreateOrder(_ context.Context, caller primitive.ObjectID, in orders.CreateOrderInput) (*models.Order, error) {
	return f.create(caller, in)
}

func (f *fakeOrders) AttachPaymentInfo(_ context.Context, orderID, userID, paymentID primitive.ObjectID) (*models.Order, error) {
	return f.attach(orderID, userID, paymentID)
}

func (f *fakeOrders) AdminUpdate(_ context.Context, actor, orderID primitive.ObjectID, in orders.AdminUpdateInput) (*orders.AdminUpdateResult, error) {
	return f.adminUpdate(actor, orderID, in)
}

func (f *fakeOrders) List(_ context.Context, filter orders.ListFilter) ([]orders.View, int64, error) {
	return f.list(filter)
}

func (f *fakeOrders) CountByStatus(context.Context) ([]orders.StatusCount, error) {
	return f.counts()
}

type fakeStatistics struct {
	OrderStatistics
	chart   func(days int) ([]orders.DailySales, error)
	top     func(limit int64, deliveredOnly bool) ([]orders.ProductSales, error)
	regions func() (map[string]int64, error)
	average func() (*orders.OrderValue, error)
}

func (f *fakeStatistics) SalesChart(_ context.Context, days int) ([]orders.DailySales, error) {
	return f.chart(days)
}

func (f *fakeStatistics) TopSellingProducts(_ context.Context, limit int64, deliveredOnly bool) ([]orders.ProductSales, error) {
	return f.top(limit, deliveredOnly)
}

func (f *fakeStatistics) OrdersByRegion(context.Context) (map[string]int64, error) {
	return f.regions()
}

func (f *fakeStatistics) AverageOrderValue(context.Context) (*orders.OrderValue, error) {
	return f.average()
}

type fakePayments struct {
	PaymentService
	create    func(caller primitive.ObjectID, in payments.CreateInput) (*models.PaymentInfo, error)
	setStatus func(actor, paymentID primitive.ObjectID, next models.PaymentStatus) (*models.PaymentInfo, error)
	usage     func() ([]payments.MethodUsage, error)
}

func (f *fakePayments) Create(_ context.Context, caller primitive.ObjectID, in payments.CreateInput) (*models.PaymentInfo, error) {
	return f.create(caller, in)
}

func (f *fakePayments) SetStatus(_ context.Context, actor, paymentID primitive.ObjectID, next models.PaymentStatus) (*models.PaymentInfo, error) {
	return f.setStatus(actor, paymentID, next)
}

func (f *fakePayments) MethodUsage(context.Context) ([]payments.MethodUsage, error) {
	return f.usage()
}

type fakeCheckout func(userID primitive.ObjectID, req checkout.Request) (*checkout.Result, error)

func (f fakeCheckout) Place(_ context.Context, userID primitive.ObjectID, req checkout.Request) (*checkout.Result, error) {
	return f(userID, req)
}

type fakeAddresses struct {
	AddressStore
	saved map[primitive.ObjectID]*models.Address
}

func (f *fakeAddresses) Get(_ context.Context, userID primitive.ObjectID) (*models.Address, error) {
	return f.saved[userID], nil
}

type fakeCarts struct {
	CartStore
	setItem func(userID, productID primitive.ObjectID, variant *models.Variant, quantity int) (*models.Cart, error)
}

func (f *fakeCarts) SetItem(_ context.Context, userID, productID primitive.ObjectID, variant *models.Variant, quantity int) (*models.Cart, error) {
	return f.setItem(userID, productID, variant, quantity)
}

type fakeCatalog struct {
	CatalogStore
	lowStock func(threshold int) ([]models.Product, error)
}

func (f *fakeCatalog) LowStock(_ context.Context, threshold int) ([]models.Product, error) {
	return f.lowStock(threshold)
}

// authed mounts h behind UserAuth so handlers see a real caller id.
func authed(method, path string, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, path, middleware.UserAuth(testSecret), h)
	return r
}

func bearer(t *testing.T, id primitive.ObjectID) string {
	t.Helper()
	token, err := users.IssueToken(models.User{ID: id, Email: "a@b.c", Role: models.RoleUser}, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func send(r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
