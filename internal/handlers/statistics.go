package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/payments"
)

func OrdersByStatus(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/orders-by-status"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		counts, err := svc.CountByStatus(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if counts == nil {
			counts = []orders.StatusCount{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": counts})
	}
}

func PaymentMethodUsage(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/payment-method-usage"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		usage, err := svc.MethodUsage(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if usage == nil {
			usage = []payments.MethodUsage{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": usage})
	}
}

// LowStockProducts accepts ?threshold= to override the configured default.
func LowStockProducts(store CatalogStore, defaultThreshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/low-stock-products"
		defer handlePanic(c, route)

		threshold := defaultThreshold
		if raw := c.Query("threshold"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				respondAppError(c, route, apperr.Validation("invalid threshold", "threshold must be a non-negative integer"))
				return
			}
			threshold = n
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		products, err := store.LowStock(ctx, threshold)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if products == nil {
			products = []models.Product{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "threshold": threshold, "data": products})
	}
}

const (
	defaultChartDays = 7
	maxChartDays     = 90
	defaultTopLimit  = 5
	maxTopLimit      = 50
)

// queryInt reads an optional integer query parameter within [lo, hi].
func queryInt(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, apperr.Validation("invalid "+name,
			name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return n, nil
}

func StatisticsSummary(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		summary, err := svc.Summary(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
	}
}

func AverageOrderValue(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/average-order-value"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		value, err := svc.AverageOrderValue(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": value})
	}
}

// SalesChart accepts ?days= (default 7).
func SalesChart(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/sales-chart"
		defer handlePanic(c, route)

		days, err := queryInt(c, "days", defaultChartDays, 1, maxChartDays)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		sales, err := svc.SalesChart(ctx, days)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if sales == nil {
			sales = []orders.DailySales{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "days": days, "data": sales})
	}
}

func LatestOrders(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/latest-orders"
		defer handlePanic(c, route)

		limit, err := queryInt(c, "limit", defaultTopLimit, 1, maxTopLimit)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := svc.LatestOrders(ctx, int64(limit))
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if list == nil {
			list = []orders.View{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	}
}

func OrdersByRegion(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/orders-by-region"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		regions, err := svc.OrdersByRegion(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if regions == nil {
			regions = map[string]int64{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": regions})
	}
}

// TopProducts ranks products by units ordered. The top-tier variant only
// counts delivered orders.
func TopProducts(svc OrderStatistics, deliveredOnly bool) gin.HandlerFunc {
	route := "GET /admin/statistics/top-selling-products"
	if deliveredOnly {
		route = "GET /admin/statistics/top-tier-products"
	}
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		limit, err := queryInt(c, "limit", defaultTopLimit, 1, maxTopLimit)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		products, err := svc.TopSellingProducts(ctx, int64(limit), deliveredOnly)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if products == nil {
			products = []orders.ProductSales{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
	}
}

func TopCustomers(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/top-tier-customers"
		defer handlePanic(c, route)

		limit, err := queryInt(c, "limit", defaultTopLimit, 1, maxTopLimit)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		customers, err := svc.TopCustomers(ctx, int64(limit))
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if customers == nil {
			customers = []orders.CustomerSpend{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": customers})
	}
}

func CategorySales(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/statistics/category-sales"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		sales, err := svc.CategorySales(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if sales == nil {
			sales = []orders.CategorySales{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": sales})
	}
}
