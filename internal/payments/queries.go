package payments

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

type OrderSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Status      models.OrderStatus `bson:"status" json:"status"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingFee float64            `bson:"shippingFee" json:"shippingFee"`
	OrderDate   time.Time          `bson:"orderDate" json:"orderDate"`
}

// View is a payment with the documents it references joined in.
type View struct {
	models.PaymentInfo `bson:",inline"`
	Order              *OrderSummary `bson:"order,omitempty" json:"order,omitempty"`
	User               *UserSummary  `bson:"user,omitempty" json:"user,omitempty"`
}

// ListFilter selects the admin transaction table page.
type ListFilter struct {
	Status string
	Method string
	Page   int64
	Limit  int64
}

type MethodUsage struct {
	Method models.PaymentMethod `bson:"_id" json:"method"`
	Count  int64                `bson:"count" json:"count"`
	Amount float64              `bson:"amount" json:"amount"`
}

func joinOrder() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.OrdersCollection,
			"localField":   "orderId",
			"foreignField": "_id",
			"as":           "order",
			"pipeline": bson.A{bson.M{"$project": bson.M{
				"status": 1, "totalAmount": 1, "shippingFee": 1, "orderDate": 1,
			}}},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$order", "preserveNullAndEmptyArrays": true}}},
	}
}

func joinUser() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
			"pipeline":     bson.A{bson.M{"$project": bson.M{"name": 1, "email": 1}}},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
	}
}

func (s *Service) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]View, error) {
	cursor, err := s.payments().Aggregate(ctx, pipeline)
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

// ListForUser returns the caller's payments, newest first, with their order.
func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]View, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
	pipeline = append(pipeline, joinOrder()...)
	return s.aggregate(ctx, pipeline)
}

func (s *Service) Get(ctx context.Context, paymentID primitive.ObjectID) (*View, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": paymentID}}},
	}
	pipeline = append(pipeline, joinOrder()...)
	pipeline = append(pipeline, joinUser()...)

	views, err := s.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperr.NotFound("payment not found")
	}
	return &views[0], nil
}

// List pages through all payments for staff, optionally filtered.
func (s *Service) List(ctx context.Context, f ListFilter) ([]View, int64, error) {
	match := bson.M{}
	if f.Status != "" {
		status, ok := models.ParsePaymentStatus(f.Status)
		if !ok {
			return nil, 0, apperr.Validation("invalid filter", "status "+f.Status+" is not recognised")
		}
		match["status"] = status
	}
	if f.Method != "" {
		method, ok := models.ParsePaymentMethod(f.Method)
		if !ok {
			return nil, 0, apperr.Validation("invalid filter", "method "+f.Method+" is not recognised")
		}
		match["method"] = method
	}

	total, err := s.payments().CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, apperr.FromStore(err, "", "")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: (f.Page - 1) * f.Limit}},
		{{Key: "$limit", Value: f.Limit}},
	}
	pipeline = append(pipeline, joinUser()...)

	views, err := s.aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// MethodUsage counts payments and sums amounts per method.
func (s *Service) MethodUsage(ctx context.Context) ([]MethodUsage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    "$method",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := s.payments().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	defer cursor.Close(ctx)

	usage := make([]MethodUsage, 0)
	if err := cursor.All(ctx, &usage); err != nil {
		return nil, apperr.Internal("decode error", err)
	}
	return usage, nil
}
