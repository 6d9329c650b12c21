package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/users"
)

type OrderService interface {
	CreateOrder(ctx context.Context, caller primitive.ObjectID, in orders.CreateOrderInput) (*models.Order, error)
	AttachPaymentInfo(ctx context.Context, orderID, userID, paymentID primitive.ObjectID) (*models.Order, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]orders.View, error)
	Get(ctx context.Context, orderID primitive.ObjectID) (*orders.View, error)
	List(ctx context.Context, f orders.ListFilter) ([]orders.View, int64, error)
	AdminUpdate(ctx context.Context, actor, orderID primitive.ObjectID, in orders.AdminUpdateInput) (*orders.AdminUpdateResult, error)
	CountByStatus(ctx context.Context) ([]orders.StatusCount, error)
}

// OrderStatistics backs the dashboard aggregations over orders.
type OrderStatistics interface {
	Summary(ctx context.Context) (*orders.Summary, error)
	AverageOrderValue(ctx context.Context) (*orders.OrderValue, error)
	SalesChart(ctx context.Context, days int) ([]orders.DailySales, error)
	LatestOrders(ctx context.Context, limit int64) ([]orders.View, error)
	OrdersByRegion(ctx context.Context) (map[string]int64, error)
	TopSellingProducts(ctx context.Context, limit int64, deliveredOnly bool) ([]orders.ProductSales, error)
	TopCustomers(ctx context.Context, limit int64) ([]orders.CustomerSpend, error)
	CategorySales(ctx context.Context) ([]orders.CategorySales, error)
}

type PaymentService interface {
	Create(ctx context.Context, caller primitive.ObjectID, in payments.CreateInput) (*models.PaymentInfo, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]payments.View, error)
	Get(ctx context.Context, paymentID primitive.ObjectID) (*payments.View, error)
	List(ctx context.Context, f payments.ListFilter) ([]payments.View, int64, error)
	SetStatus(ctx context.Context, actor, paymentID primitive.ObjectID, next models.PaymentStatus) (*models.PaymentInfo, error)
	MethodUsage(ctx context.Context) ([]payments.MethodUsage, error)
}

type CheckoutService interface {
	Place(ctx context.Context, userID primitive.ObjectID, req checkout.Request) (*checkout.Result, error)
}

type AddressStore interface {
	Create(ctx context.Context, userID primitive.ObjectID, fields models.ShippingAddress) (*models.Address, error)
	Update(ctx context.Context, userID primitive.ObjectID, fields models.ShippingAddress) (*models.Address, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Address, error)
}

type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SetItem(ctx context.Context, userID, productID primitive.ObjectID, variant *models.Variant, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type CatalogStore interface {
	List(ctx context.Context, f catalog.ListFilter) ([]models.Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*users.Session, error)
	SetRoleAndStatus(ctx context.Context, actor, userID primitive.ObjectID, role *models.Role, status *models.AccountStatus) (*models.User, error)
}
