package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

// UserDirectory serves both the account endpoints and the role checks.
type UserDirectory interface {
	handlers.UserService
	middleware.RoleLookup
}

// Deps carries everything the HTTP surface is wired to.
type Deps struct {
	JWTSecret         string
	CORSOrigins       []string
	LowStockThreshold int

	Users      UserDirectory
	Catalog    handlers.CatalogStore
	Orders     handlers.OrderService
	Statistics handlers.OrderStatistics
	Payments   handlers.PaymentService
	Checkout   handlers.CheckoutService
	Addresses  handlers.AddressStore
	Carts      handlers.CartStore
	Feed       handlers.FeedServer

	Ping    func(ctx context.Context) error
	Metrics http.Handler
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Setup registers every route under /api plus the health and metrics probes.
func Setup(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/healthz", handlers.Health(d.Ping))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	api := r.Group("/api")

	api.POST("/auth/register", handlers.Register(d.Users))
	api.POST("/auth/login", handlers.Login(d.Users))

	api.GET("/products", handlers.GetProducts(d.Catalog))
	api.GET("/products/:slug", handlers.GetProduct(d.Catalog))

	user := api.Group("")
	user.Use(middleware.UserAuth(d.JWTSecret))
	{
		user.POST("/order-create", handlers.CreateOrder(d.Orders))
		user.PUT("/order-update", handlers.AttachPaymentInfo(d.Orders))
		user.GET("/orders", handlers.GetMyOrders(d.Orders))

		user.POST("/payment-create", handlers.CreatePayment(d.Payments))
		user.GET("/payments", handlers.GetMyPayments(d.Payments))

		user.POST("/checkout", handlers.PlaceOrder(d.Checkout))

		user.POST("/address-create", handlers.CreateAddress(d.Addresses))
		user.PUT("/address-update", handlers.UpdateAddress(d.Addresses))
		user.GET("/address", handlers.GetAddress(d.Addresses))

		user.GET("/cart", handlers.GetCart(d.Carts))
		user.PUT("/cart", handlers.SetCartItem(d.Carts))
		user.DELETE("/cart", handlers.ClearCart(d.Carts))
		user.DELETE("/cart/items/:productId", handlers.RemoveCartItem(d.Carts))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.TokenFromQuery(), middleware.UserAuth(d.JWTSecret), middleware.StaffOnly(d.Users))
	{
		admin.GET("/orders", handlers.AdminListOrders(d.Orders))
		admin.GET("/order/:id", handlers.AdminGetOrder(d.Orders))
		admin.PUT("/order/:id", handlers.AdminUpdateOrder(d.Orders))

		admin.GET("/transactions", handlers.AdminListTransactions(d.Payments))
		admin.GET("/transaction/:id", handlers.AdminGetTransaction(d.Payments))
		admin.PUT("/transaction/:id", handlers.AdminUpdateTransaction(d.Payments))

		admin.PUT("/users/:id", middleware.AdminOnly(d.Users), handlers.AdminUpdateUser(d.Users))

		admin.GET("/statistics", handlers.StatisticsSummary(d.Statistics))
		admin.GET("/statistics/orders-by-status", handlers.OrdersByStatus(d.Orders))
		admin.GET("/statistics/average-order-value", handlers.AverageOrderValue(d.Statistics))
		admin.GET("/statistics/sales-chart", handlers.SalesChart(d.Statistics))
		admin.GET("/statistics/latest-orders", handlers.LatestOrders(d.Statistics))
		admin.GET("/statistics/orders-by-region", handlers.OrdersByRegion(d.Statistics))
		admin.GET("/statistics/top-selling-products", handlers.TopProducts(d.Statistics, false))
		admin.GET("/statistics/top-tier-products", handlers.TopProducts(d.Statistics, true))
		admin.GET("/statistics/top-tier-customers", handlers.TopCustomers(d.Statistics))
		admin.GET("/statistics/category-sales", handlers.CategorySales(d.Statistics))
		admin.GET("/statistics/payment-method-usage", handlers.PaymentMethodUsage(d.Payments))
		admin.GET("/statistics/low-stock-products", handlers.LowStockProducts(d.Catalog, d.LowStockThreshold))

		if d.Feed != nil {
			admin.GET("/feed", handlers.AdminFeed(d.Feed))
		}
	}
}
