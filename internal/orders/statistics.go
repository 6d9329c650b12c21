package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

// salesStatuses are the statuses whose orders count towards the sales chart.
var salesStatuses = []models.OrderStatus{
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

const (
	// UnknownRegion labels orders whose shipping address has no region.
	UnknownRegion   = "Unknown"
	// UnknownCategory groups sales of products without a category.
	UnknownCategory = "Uncategorized"
)

type Summary struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalCustomers int64   `json:"totalCustomers"`
	TotalProducts  int64   `json:"totalProducts"`
}

type OrderValue struct {
	AverageOrderValue string `json:"averageOrderValue"`
	OrderCount        int64  `json:"orderCount"`
}

type DailySales struct {
	Date       string  `bson:"_id" json:"date"`
	TotalSales float64 `bson:"totalSales" json:"totalSales"`
}

type ProductSales struct {
	ProductID     primitive.ObjectID `bson:"productId" json:"productId"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	TotalQuantity int64              `bson:"totalQuantity" json:"totalQuantity"`
}

type CustomerSpend struct {
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	TotalSpent float64            `bson:"totalSpent" json:"totalSpent"`
	OrderCount int64              `bson:"orderCount" json:"orderCount"`
}

type CategorySales struct {
	Category      string  `bson:"_id" json:"category"`
	TotalSales    float64 `bson:"totalSales" json:"totalSales"`
	TotalQuantity int64   `bson:"totalQuantity" json:"totalQuantity"`
}

type regionCount struct {
	Region *string `bson:"_id"`
	Count  int64   `bson:"count"`
}

func aggregateAll[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, apperr.Internal("decode error", err)
	}
	return out, nil
}

func revenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.OrderStatusDelivered}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "totalRevenue": bson.M{"$sum": "$totalAmount"}}}},
	}
}

// Summary is the dashboard headline: delivered revenue and the size of the
// store.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	type revenue struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	rows, err := aggregateAll[revenue](ctx, s.orders(), revenuePipeline())
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(rows) > 0 {
		summary.TotalRevenue = rows[0].TotalRevenue
	}

	if summary.TotalOrders, err = s.orders().CountDocuments(ctx, bson.M{}); err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	users := s.db.Collection(database.UsersCollection)
	if summary.TotalCustomers, err = users.CountDocuments(ctx, bson.M{"role": models.RoleUser}); err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	products := s.db.Collection(database.ProductsCollection)
	if summary.TotalProducts, err = products.CountDocuments(ctx, bson.M{"isPublished": true}); err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	return summary, nil
}

func averageOrderValuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"averageOrderValue": bson.M{"$avg": "$totalAmount"},
			"orderCount":        bson.M{"$sum": 1},
		}}},
	}
}

func (s *Service) AverageOrderValue(ctx context.Context) (*OrderValue, error) {
	type row struct {
		AverageOrderValue float64 `bson:"averageOrderValue"`
		OrderCount        int64   `bson:"orderCount"`
	}
	rows, err := aggregateAll[row](ctx, s.orders(), averageOrderValuePipeline())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &OrderValue{AverageOrderValue: "0.00"}, nil
	}
	return &OrderValue{
		AverageOrderValue: decimal.NewFromFloat(rows[0].AverageOrderValue).StringFixed(2),
		OrderCount:        rows[0].OrderCount,
	}, nil
}

func salesChartPipeline(since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"orderDate": bson.M{"$gte": since},
			"status":    bson.M{"$in": salesStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$orderDate"}},
			"totalSales": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// SalesChart sums sales per UTC day over the last days days.
func (s *Service) SalesChart(ctx context.Context, days int) ([]DailySales, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	return aggregateAll[DailySales](ctx, s.orders(), salesChartPipeline(since))
}

func latestOrdersPipeline(limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "orderDate", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"shippingAddress": 0, "paymentInfo": 0, "statusHistory": 0}}},
	}
	pipeline = append(pipeline, joinUser()...)
	pipeline = append(pipeline, joinProducts()...)
	return pipeline
}

func (s *Service) LatestOrders(ctx context.Context, limit int64) ([]View, error) {
	return s.aggregate(ctx, latestOrdersPipeline(limit))
}

func ordersByRegionPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$shippingAddress.region", "count": bson.M{"$sum": 1}}}},
	}
}

// OrdersByRegion counts orders per shipping region.
func (s *Service) OrdersByRegion(ctx context.Context) (map[string]int64, error) {
	rows, err := aggregateAll[regionCount](ctx, s.orders(), ordersByRegionPipeline())
	if err != nil {
		return nil, err
	}
	return regionTotals(rows), nil
}

func regionTotals(rows []regionCount) map[string]int64 {
	totals := make(map[string]int64, len(rows))
	for _, r := range rows {
		region := UnknownRegion
		if r.Region != nil && *r.Region != "" {
			region = *r.Region
		}
		totals[region] += r.Count
	}
	return totals
}

// topProductsPipeline ranks products by units ordered. deliveredOnly limits
// the ranking to fulfilled orders.
func topProductsPipeline(limit int64, deliveredOnly bool) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if deliveredOnly {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"status": models.OrderStatusDelivered}}})
	}
	return append(pipeline,
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$items.productId",
			"name":          bson.M{"$first": "$items.name"},
			"totalQuantity": bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         database.ProductsCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$product", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           0,
			"productId":     "$_id",
			"name":          bson.M{"$ifNull": bson.A{"$product.name", "$name"}},
			"slug":          "$product.slug",
			"totalQuantity": 1,
		}}},
	)
}

func (s *Service) TopSellingProducts(ctx context.Context, limit int64, deliveredOnly bool) ([]ProductSales, error) {
	return aggregateAll[ProductSales](ctx, s.orders(), topProductsPipeline(limit, deliveredOnly))
}

func topCustomersPipeline(limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.OrderStatusDelivered}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$userId",
			"totalSpent": bson.M{"$sum": "$totalAmount"},
			"orderCount": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSpent", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"userId":     "$_id",
			"name":       "$user.name",
			"email":      "$user.email",
			"totalSpent": 1,
			"orderCount": 1,
		}}},
	}
}

// TopCustomers ranks customers by what they spent on delivered orders.
func (s *Service) TopCustomers(ctx context.Context, limit int64) ([]CustomerSpend, error) {
	return aggregateAll[CustomerSpend](ctx, s.orders(), topCustomersPipeline(limit))
}

func categorySalesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.ProductsCollection,
			"localField":   "items.productId",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$ifNull": bson.A{"$product.category", UnknownCategory}},
			"totalSales":    bson.M{"$sum": "$items.totalPrice"},
			"totalQuantity": bson.M{"$sum": "$items.quantity"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalSales", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

func (s *Service) CategorySales(ctx context.Context) ([]CategorySales, error) {
	return aggregateAll[CategorySales](ctx, s.orders(), categorySalesPipeline())
}
