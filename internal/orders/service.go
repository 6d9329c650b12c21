package orders

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/telemetry"
)

// Catalog prices lines and moves stock.
type Catalog interface {
	Quote(ctx context.Context, productID primitive.ObjectID, variant *models.Variant) (catalog.Quote, error)
	Reserve(ctx context.Context, productID primitive.ObjectID, variant *models.Variant, quantity int) error
	Release(ctx context.Context, productID primitive.ObjectID, variant *models.Variant, quantity int) error
}

// Payments is the part of the payment store an admin order update touches.
type Payments interface {
	ForOrder(ctx context.Context, orderID primitive.ObjectID) (*models.PaymentInfo, error)
	ApplyStatus(ctx context.Context, actor primitive.ObjectID, payment *models.PaymentInfo, next models.PaymentStatus) (bool, error)
	AnnounceStatus(ctx context.Context, payment *models.PaymentInfo, previous models.PaymentStatus, actor primitive.ObjectID)
}

type Service struct {
	db          *mongo.Database
	catalog     Catalog
	payments    Payments
	shippingFee float64
	publisher   events.Publisher
	metrics     *telemetry.Metrics
}

func NewService(db *mongo.Database, catalog Catalog, payments Payments, shippingFee float64, publisher events.Publisher, metrics *telemetry.Metrics) *Service {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		db:          db,
		catalog:     catalog,
		payments:    payments,
		shippingFee: shippingFee,
		publisher:   publisher,
		metrics:     metrics,
	}
}

func (s *Service) orders() *mongo.Collection {
	return s.db.Collection(database.OrdersCollection)
}

// CreateOrder places an order for the caller in its own transaction.
func (s *Service) CreateOrder(ctx context.Context, caller primitive.ObjectID, in CreateOrderInput) (*models.Order, error) {
	if caller != in.UserID {
		return nil, apperr.Authorization("user mismatch")
	}

	var order *models.Order
	err := database.WithTransaction(ctx, s.db.Client(), func(txCtx context.Context) error {
		created, err := s.Insert(txCtx, in)
		order = created
		return err
	})
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}

	s.Announce(ctx, order, "api")
	return order, nil
}

// Insert prices the lines from the catalog, reserves stock and stores a
// Pending order. It publishes nothing; the caller owns the transaction.
func (s *Service) Insert(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	lines, address, fee, err := in.normalize(s.shippingFee)
	if err != nil {
		return nil, err
	}

	quotes := make([]catalog.Quote, 0, len(lines))
	for _, l := range lines {
		q, err := s.catalog.Quote(ctx, l.productID, l.variant)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	items, total := priceLines(lines, quotes)
	if err := verifyTotal(in.TotalAmount, total); err != nil {
		return nil, err
	}
	if err := checkAvailability(lines, quotes); err != nil {
		return nil, err
	}

	for _, l := range lines {
		if err := s.catalog.Reserve(ctx, l.productID, l.variant, l.quantity); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	order := models.Order{
		UserID:          in.UserID,
		OrderDate:       now,
		Status:          models.OrderStatusPending,
		TotalAmount:     total.InexactFloat64(),
		ShippingFee:     fee,
		ShippingAddress: address,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := s.orders().InsertOne(ctx, order)
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}

	log.Println("[ORDER] [INFO] order created:", order.ID.Hex())
	return &order, nil
}

// Announce publishes order.created after the order is durable.
func (s *Service) Announce(ctx context.Context, order *models.Order, source string) {
	s.metrics.OrderCreated(ctx, source)

	event := events.New(events.OrderCreated)
	event.OrderID = order.ID.Hex()
	event.UserID = order.UserID.Hex()
	event.Status = string(order.Status)
	event.Amount = decimal.NewFromFloat(order.TotalAmount).Add(decimal.NewFromFloat(order.ShippingFee)).InexactFloat64()
	events.Emit(ctx, s.publisher, event)
}

// AttachPaymentInfo links a payment to the caller's order. An order that does
// not exist and one owned by someone else are reported the same way.
func (s *Service) AttachPaymentInfo(ctx context.Context, orderID, userID, paymentID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := s.orders().FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order); err != nil {
		return nil, apperr.FromStore(err, "Order not found or access denied", "")
	}

	var payment models.PaymentInfo
	err := s.db.Collection(database.PaymentsCollection).FindOne(ctx, bson.M{"_id": paymentID}).Decode(&payment)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, apperr.FromStore(err, "", "")
	}
	if err == mongo.ErrNoDocuments || payment.OrderID != orderID || payment.UserID != userID {
		return nil, apperr.Validation("invalid paymentInfo", "paymentInfo does not belong to this order")
	}

	if order.PaymentInfo != nil {
		if *order.PaymentInfo == paymentID {
			return &order, nil
		}
		return nil, apperr.Conflict("order already has a payment attached")
	}

	err = s.orders().FindOneAndUpdate(ctx,
		bson.M{"_id": orderID, "userId": userID},
		bson.M{"$set": bson.M{"paymentInfo": paymentID, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, apperr.FromStore(err, "Order not found or access denied", "")
	}

	log.Printf("[ORDER] [INFO] payment %s attached to order %s", paymentID.Hex(), orderID.Hex())
	return &order, nil
}

// AdminUpdateInput carries the optional status changes of a dashboard edit.
type AdminUpdateInput struct {
	Status        *models.OrderStatus
	PaymentStatus *models.PaymentStatus
}

type AdminUpdateResult struct {
	Order   *models.Order       `json:"order"`
	Payment *models.PaymentInfo `json:"payment,omitempty"`
}

// SetStatus changes only the fulfillment status.
func (s *Service) SetStatus(ctx context.Context, actor, orderID primitive.ObjectID, next models.OrderStatus) (*models.Order, error) {
	res, err := s.AdminUpdate(ctx, actor, orderID, AdminUpdateInput{Status: &next})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

// AdminUpdate changes the order status and/or the status of its payment in
// one transaction. The payment change is applied first so the shipping cross
// rule sees the resulting payment state.
func (s *Service) AdminUpdate(ctx context.Context, actor, orderID primitive.ObjectID, in AdminUpdateInput) (*AdminUpdateResult, error) {
	if in.Status == nil && in.PaymentStatus == nil {
		return nil, apperr.Validation("nothing to update", "status or paymentStatus is required")
	}

	var (
		result          *AdminUpdateResult
		orderChanged    bool
		paymentChanged  bool
		previousOrder   models.OrderStatus
		previousPayment models.PaymentStatus
	)

	err := database.WithTransaction(ctx, s.db.Client(), func(txCtx context.Context) error {
		orderChanged, paymentChanged = false, false

		var order models.Order
		if err := s.orders().FindOne(txCtx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			return apperr.FromStore(err, "order not found", "")
		}
		previousOrder = order.Status

		payment, err := s.payments.ForOrder(txCtx, orderID)
		if err != nil {
			return err
		}

		if in.PaymentStatus != nil {
			if payment == nil {
				return apperr.Validation("order has no payment", "paymentStatus cannot be set before a payment exists")
			}
			previousPayment = payment.Status
			paymentChanged, err = s.payments.ApplyStatus(txCtx, actor, payment, *in.PaymentStatus)
			if err != nil {
				return err
			}
		}

		if in.Status != nil {
			var paymentStatus *models.PaymentStatus
			if payment != nil {
				paymentStatus = &payment.Status
			}
			orderChanged, err = s.applyStatus(txCtx, actor, &order, *in.Status, paymentStatus)
			if err != nil {
				return err
			}
		}

		result = &AdminUpdateResult{Order: &order, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}

	if orderChanged {
		s.announceStatus(ctx, result.Order, previousOrder, actor)
	}
	if paymentChanged {
		s.payments.AnnounceStatus(ctx, result.Payment, previousPayment, actor)
	}
	return result, nil
}

func (s *Service) applyStatus(ctx context.Context, actor primitive.ObjectID, order *models.Order, next models.OrderStatus, payment *models.PaymentStatus) (bool, error) {
	plan, err := planStatusChange(*order, next, payment)
	if err != nil {
		return false, err
	}
	if plan.noop {
		return false, nil
	}

	if plan.releaseStock {
		for _, item := range order.Items {
			if err := s.catalog.Release(ctx, item.ProductID, item.Variant, item.Quantity); err != nil {
				return false, err
			}
		}
	}

	now := time.Now().UTC()
	change := models.StatusChange{
		From:      string(order.Status),
		To:        string(next),
		ChangedBy: actor,
		ChangedAt: now,
	}
	set := bson.M{"status": next, "updatedAt": now}
	if plan.releaseStock {
		set["stockReleased"] = true
	}

	res, err := s.orders().UpdateOne(ctx,
		bson.M{"_id": order.ID, "status": order.Status},
		bson.M{"$set": set, "$push": bson.M{"statusHistory": change}},
	)
	if err != nil {
		return false, apperr.FromStore(err, "", "")
	}
	if res.MatchedCount == 0 {
		return false, apperr.Conflict("order status changed concurrently, reload and retry")
	}

	log.Printf("[ORDER] [INFO] order %s status %s -> %s by %s", order.ID.Hex(), order.Status, next, actor.Hex())
	order.Status = next
	order.UpdatedAt = now
	order.StatusHistory = append(order.StatusHistory, change)
	if plan.releaseStock {
		order.StockReleased = true
	}
	return true, nil
}

func (s *Service) announceStatus(ctx context.Context, order *models.Order, previous models.OrderStatus, actor primitive.ObjectID) {
	s.metrics.StatusChanged(ctx, "order", string(order.Status))

	event := events.New(events.OrderStatusChanged)
	event.OrderID = order.ID.Hex()
	event.UserID = order.UserID.Hex()
	event.Status = string(order.Status)
	event.PreviousStatus = string(previous)
	event.ChangedBy = actor.Hex()
	if order.PaymentInfo != nil {
		event.PaymentID = order.PaymentInfo.Hex()
	}
	events.Emit(ctx, s.publisher, event)
}
