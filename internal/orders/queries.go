package orders

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

type UserSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phone_number,omitempty" json:"phoneNumber,omitempty"`
}

type ProductSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Slug  string             `bson:"slug" json:"slug"`
	SKU   string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Price float64            `bson:"price" json:"price"`
}

// View is an order with its referenced documents joined in.
type View struct {
	models.Order `bson:",inline"`
	Payment      *models.PaymentInfo `bson:"payment,omitempty" json:"payment,omitempty"`
	User         *UserSummary        `bson:"user,omitempty" json:"user,omitempty"`
	Products     []ProductSummary    `bson:"products,omitempty" json:"products,omitempty"`
}

// SearchBy names the field the admin table search applies to.
type SearchBy string

const (
	SearchByOrderID SearchBy = "orderId"
	SearchByEmail   SearchBy = "email"
	SearchByTrxID   SearchBy = "trxId"
)

type ListFilter struct {
	Search   string
	SearchBy SearchBy
	Status   string
	Page     int64
	Limit    int64
}

type StatusCount struct {
	Status models.OrderStatus `bson:"_id" json:"status"`
	Count  int64              `bson:"count" json:"count"`
}

func joinPayment() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.PaymentsCollection,
			"localField":   "_id",
			"foreignField": "orderId",
			"as":           "payment",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$payment", "preserveNullAndEmptyArrays": true}}},
	}
}

func joinUser() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
			"pipeline": bson.A{bson.M{"$project": bson.M{
				"name": 1, "email": 1, "phone_number": 1,
			}}},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
	}
}

func joinProducts() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.ProductsCollection,
			"localField":   "items.productId",
			"foreignField": "_id",
			"as":           "products",
			"pipeline": bson.A{bson.M{"$project": bson.M{
				"name": 1, "slug": 1, "sku": 1, "price": 1,
			}}},
		}}},
	}
}

func (s *Service) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]View, error) {
	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	defer cursor.Close(ctx)

	views := make([]View, 0)
	if err := cursor.All(ctx, &views); err != nil {
		return nil, apperr.Internal("decode error", err)
	}
	return views, nil
}

// ListForUser returns the caller's orders, newest first, with payment joined.
func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]View, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$project", Value: bson.M{"statusHistory": 0}}},
	}
	pipeline = append(pipeline, joinPayment()...)
	return s.aggregate(ctx, pipeline)
}

// Get loads one order for staff with user, payment and products joined.
func (s *Service) Get(ctx context.Context, orderID primitive.ObjectID) (*View, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": orderID}}},
	}
	pipeline = append(pipeline, joinUser()...)
	pipeline = append(pipeline, joinPayment()...)
	pipeline = append(pipeline, joinProducts()...)

	views, err := s.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperr.NotFound("order not found")
	}
	return &views[0], nil
}

// listPipeline builds the match stages of the admin order table. Joins needed
// by the search run before the match.
func listPipeline(f ListFilter) (mongo.Pipeline, error) {
	pipeline := mongo.Pipeline{}

	if f.Status != "" {
		status, ok := models.ParseOrderStatus(f.Status)
		if !ok {
			return nil, apperr.Validation("invalid filter", "status "+f.Status+" is not recognised")
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"status": status}}})
	}

	pipeline = append(pipeline, joinUser()...)
	pipeline = append(pipeline, joinPayment()...)

	search := strings.TrimSpace(f.Search)
	if search == "" {
		return pipeline, nil
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}

	switch f.SearchBy {
	case SearchByOrderID, "":
		id, err := primitive.ObjectIDFromHex(search)
		if err != nil {
			return nil, apperr.Validation("invalid search", "search must be a valid order id")
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"_id": id}}})
	case SearchByEmail:
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"user.email": pattern}}})
	case SearchByTrxID:
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"payment.trxId": pattern}}})
	default:
		return nil, apperr.Validation("invalid search", "searchBy must be one of orderId, email, trxId")
	}
	return pipeline, nil
}

type listPage struct {
	Data  []View `bson:"data"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// List pages through all orders for the admin table.
func (s *Service) List(ctx context.Context, f ListFilter) ([]View, int64, error) {
	pipeline, err := listPipeline(f)
	if err != nil {
		return nil, 0, err
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"data": bson.A{
			bson.M{"$sort": bson.D{{Key: "createdAt", Value: -1}}},
			bson.M{"$skip": (f.Page - 1) * f.Limit},
			bson.M{"$limit": f.Limit},
			bson.M{"$project": bson.M{"statusHistory": 0}},
		},
		"total": bson.A{bson.M{"$count": "count"}},
	}}})

	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "", "")
	}
	defer cursor.Close(ctx)

	var pages []listPage
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, 0, apperr.Internal("decode error", err)
	}
	if len(pages) == 0 {
		return []View{}, 0, nil
	}

	page := pages[0]
	var total int64
	if len(page.Total) > 0 {
		total = page.Total[0].Count
	}
	if page.Data == nil {
		page.Data = []View{}
	}
	return page.Data, total, nil
}

// CountByStatus groups all orders by fulfillment status.
func (s *Service) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	defer cursor.Close(ctx)

	counts := make([]StatusCount, 0)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, apperr.Internal("decode error", err)
	}
	return counts, nil
}
