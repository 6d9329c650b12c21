package payments

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/telemetry"
)

type Service struct {
	db        *mongo.Database
	currency  string
	publisher events.Publisher
	metrics   *telemetry.Metrics
}

func NewService(db *mongo.Database, currency string, publisher events.Publisher, metrics *telemetry.Metrics) *Service {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{db: db, currency: currency, publisher: publisher, metrics: metrics}
}

func (s *Service) payments() *mongo.Collection {
	return s.db.Collection(database.PaymentsCollection)
}

// Create records a payment for an order the caller owns and announces it.
func (s *Service) Create(ctx context.Context, caller primitive.ObjectID, in CreateInput) (*models.PaymentInfo, error) {
	payment, err := s.Insert(ctx, caller, in)
	if err != nil {
		return nil, err
	}
	s.Announce(ctx, payment)
	return payment, nil
}

// Insert persists the payment without publishing anything, so it can take
// part in a larger transaction.
func (s *Service) Insert(ctx context.Context, caller primitive.ObjectID, in CreateInput) (*models.PaymentInfo, error) {
	var order models.Order
	err := s.db.Collection(database.OrdersCollection).
		FindOne(ctx, bson.M{"_id": in.OrderID, "userId": caller}).
		Decode(&order)
	if err != nil {
		return nil, apperr.FromStore(err, "Order not found or access denied", "")
	}
	if order.Status == models.OrderStatusCancelled || order.Status == models.OrderStatusRefunded {
		return nil, apperr.Conflict("order is " + string(order.Status))
	}

	payment, err := prepare(in, order, s.currency, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	res, err := s.payments().InsertOne(ctx, payment)
	if err != nil {
		return nil, apperr.FromStore(err, "", "payment already recorded for this order or trxId")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = id
	}

	log.Printf("[PAYMENT] [INFO] payment %s created for order %s (%s, %s)",
		payment.ID.Hex(), order.ID.Hex(), payment.Method, payment.Status)
	return &payment, nil
}

// Announce publishes payment.created and bumps the counter. Call it after the
// surrounding transaction committed.
func (s *Service) Announce(ctx context.Context, payment *models.PaymentInfo) {
	s.metrics.PaymentCreated(ctx, string(payment.Method))

	event := events.New(events.PaymentCreated)
	event.PaymentID = payment.ID.Hex()
	event.OrderID = payment.OrderID.Hex()
	event.UserID = payment.UserID.Hex()
	event.Status = string(payment.Status)
	event.Amount = payment.Amount
	events.Emit(ctx, s.publisher, event)
}

// ForOrder returns the payment attached to an order, nil when there is none.
func (s *Service) ForOrder(ctx context.Context, orderID primitive.ObjectID) (*models.PaymentInfo, error) {
	var payment models.PaymentInfo
	err := s.payments().FindOne(ctx, bson.M{"orderId": orderID}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	return &payment, nil
}

// SetStatus moves a payment through its state machine on behalf of staff.
func (s *Service) SetStatus(ctx context.Context, actor, paymentID primitive.ObjectID, next models.PaymentStatus) (*models.PaymentInfo, error) {
	var payment models.PaymentInfo
	if err := s.payments().FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment); err != nil {
		return nil, apperr.FromStore(err, "payment not found", "")
	}

	previous := payment.Status
	changed, err := s.ApplyStatus(ctx, actor, &payment, next)
	if err != nil {
		return nil, err
	}
	if changed {
		s.AnnounceStatus(ctx, &payment, previous, actor)
	}
	return &payment, nil
}

// ApplyStatus validates and writes a transition on payment, updating it in
// place. Re-applying the current status is a no-op and reports changed=false.
// The write is guarded on the status read, so a concurrent change surfaces as
// a conflict instead of being overwritten.
func (s *Service) ApplyStatus(ctx context.Context, actor primitive.ObjectID, payment *models.PaymentInfo, next models.PaymentStatus) (bool, error) {
	if !next.IsValid() {
		return false, apperr.Validation("invalid payment status", "status "+string(next)+" is not recognised")
	}
	if payment.Status == next {
		return false, nil
	}
	if !payment.Status.CanTransitionTo(next) {
		return false, apperr.Conflict("payment cannot move from " + string(payment.Status) + " to " + string(next))
	}

	now := time.Now().UTC()
	change := models.StatusChange{
		From:      string(payment.Status),
		To:        string(next),
		ChangedBy: actor,
		ChangedAt: now,
	}
	res, err := s.payments().UpdateOne(ctx,
		bson.M{"_id": payment.ID, "status": payment.Status},
		bson.M{
			"$set":  bson.M{"status": next, "updatedAt": now},
			"$push": bson.M{"statusHistory": change},
		},
	)
	if err != nil {
		return false, apperr.FromStore(err, "", "")
	}
	if res.MatchedCount == 0 {
		return false, apperr.Conflict("payment status changed concurrently, reload and retry")
	}

	log.Printf("[PAYMENT] [INFO] payment %s status %s -> %s by %s", payment.ID.Hex(), payment.Status, next, actor.Hex())
	payment.Status = next
	payment.UpdatedAt = now
	payment.StatusHistory = append(payment.StatusHistory, change)
	return true, nil
}

func (s *Service) AnnounceStatus(ctx context.Context, payment *models.PaymentInfo, previous models.PaymentStatus, actor primitive.ObjectID) {
	s.metrics.StatusChanged(ctx, "payment", string(payment.Status))

	event := events.New(events.PaymentStatusChanged)
	event.PaymentID = payment.ID.Hex()
	event.OrderID = payment.OrderID.Hex()
	event.UserID = payment.UserID.Hex()
	event.Status = string(payment.Status)
	event.PreviousStatus = string(previous)
	event.ChangedBy = actor.Hex()
	events.Emit(ctx, s.publisher, event)
}
