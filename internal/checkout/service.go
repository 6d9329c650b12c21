package checkout

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/telemetry"
)

type Orders interface {
	Insert(ctx context.Context, in orders.CreateOrderInput) (*models.Order, error)
	AttachPaymentInfo(ctx context.Context, orderID, userID, paymentID primitive.ObjectID) (*models.Order, error)
	Announce(ctx context.Context, order *models.Order, source string)
}

type Payments interface {
	Insert(ctx context.Context, caller primitive.ObjectID, in payments.CreateInput) (*models.PaymentInfo, error)
	Announce(ctx context.Context, payment *models.PaymentInfo)
}

type Addresses interface {
	CreateIfMissing(ctx context.Context, userID primitive.ObjectID, fields models.ShippingAddress) (bool, error)
}

type Carts interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// Transactor runs fn atomically; every write made with the context it passes
// commits or rolls back together.
type Transactor func(ctx context.Context, fn func(ctx context.Context) error) error

// MongoTransactor runs checkouts in MongoDB multi-document transactions.
func MongoTransactor(client *mongo.Client) Transactor {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return database.WithTransaction(ctx, client, fn)
	}
}

type Result struct {
	Order        *models.Order       `json:"order"`
	Payment      *models.PaymentInfo `json:"payment"`
	AddressSaved bool                `json:"addressSaved"`
}

type Service struct {
	tx        Transactor
	orders    Orders
	payments  Payments
	addresses Addresses
	carts     Carts
	publisher events.Publisher
	metrics   *telemetry.Metrics
}

func NewService(tx Transactor, orders Orders, payments Payments, addresses Addresses, carts Carts, publisher events.Publisher, metrics *telemetry.Metrics) *Service {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		tx:        tx,
		orders:    orders,
		payments:  payments,
		addresses: addresses,
		carts:     carts,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Place turns a checkout into an order with its payment, atomically. Either
// the order, its payment, the link between them, the saved address and the
// emptied cart all persist, or none of them do.
func (s *Service) Place(ctx context.Context, userID primitive.ObjectID, req Request) (result *Result, err error) {
	started := time.Now()
	defer func() {
		kind := ""
		if err != nil {
			kind = apperr.KindOf(err).String()
		}
		s.metrics.CheckoutFinished(ctx, started, kind)
	}()

	items := req.Items
	if len(items) == 0 {
		cart, err := s.carts.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		items = cartLines(cart)
	}

	method, problems := preconditions(req, items)
	if len(problems) > 0 {
		log.Printf("[CHECKOUT] [WARN] rejected for user %s: %v", userID.Hex(), problems)
		return nil, apperr.Validation("checkout is incomplete", problems...)
	}

	err = s.tx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.Insert(txCtx, orders.CreateOrderInput{
			UserID:          userID,
			Items:           items,
			TotalAmount:     req.TotalAmount,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			return err
		}

		payment, err := s.payments.Insert(txCtx, userID, payments.CreateInput{
			OrderID: order.ID,
			Method:  string(method),
			TrxID:   req.TrxID,
			Notes:   req.Notes,
		})
		if err != nil {
			return err
		}

		order, err = s.orders.AttachPaymentInfo(txCtx, order.ID, userID, payment.ID)
		if err != nil {
			return err
		}

		saved, err := s.addresses.CreateIfMissing(txCtx, userID, req.ShippingAddress)
		if err != nil {
			return err
		}

		if err := s.carts.Clear(txCtx, userID); err != nil {
			return err
		}

		result = &Result{Order: order, Payment: payment, AddressSaved: saved}
		return nil
	})
	if err != nil {
		log.Printf("[CHECKOUT] [ERROR] rolled back for user %s: %v", userID.Hex(), err)
		return nil, apperr.FromStore(err, "", "")
	}

	s.orders.Announce(ctx, result.Order, "checkout")
	s.payments.Announce(ctx, result.Payment)

	event := events.New(events.CheckoutCompleted)
	event.OrderID = result.Order.ID.Hex()
	event.PaymentID = result.Payment.ID.Hex()
	event.UserID = userID.Hex()
	event.Status = string(result.Payment.Status)
	event.Amount = result.Payment.Amount
	events.Emit(ctx, s.publisher, event)

	log.Printf("[CHECKOUT] [INFO] order %s placed with %s payment %s",
		result.Order.ID.Hex(), result.Payment.Method, result.Payment.ID.Hex())
	return result, nil
}
