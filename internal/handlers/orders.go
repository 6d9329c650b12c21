package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/orders"
)

/* =========================
   REQUEST DTOs
========================= */

// lineItemRequest is checked by the order service, which reports problems
// per index.
type lineItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Variant   *models.Variant `json:"variant"`
}

type createOrderRequest struct {
	UserID          string                 `json:"userId" binding:"required"`
	Items           []lineItemRequest      `json:"items" binding:"required"`
	TotalAmount     *float64               `json:"totalAmount"`
	ShippingFee     *float64               `json:"shippingFee"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

type attachPaymentRequest struct {
	OrderID     string `json:"orderId" binding:"required"`
	PaymentInfo string `json:"paymentInfo" binding:"required"`
}

func toLineInputs(items []lineItemRequest) []orders.LineInput {
	lines := make([]orders.LineInput, 0, len(items))
	for _, item := range items {
		lines = append(lines, orders.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		})
	}
	return lines
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order-create"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		userID, err := parseObjectID("userId", req.UserID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := svc.CreateOrder(ctx, caller, orders.CreateOrderInput{
			UserID:          userID,
			Items:           toLineInputs(req.Items),
			TotalAmount:     req.TotalAmount,
			ShippingAddress: req.ShippingAddress,
			ShippingFee:     req.ShippingFee,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
	}
}

/* =========================
   ATTACH PAYMENT
========================= */

func AttachPaymentInfo(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /order-update"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req attachPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		orderID, err := parseObjectID("orderId", req.OrderID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		paymentID, err := parseObjectID("paymentInfo", req.PaymentInfo)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := svc.AttachPaymentInfo(ctx, orderID, caller, paymentID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

/* =========================
   MY ORDERS
========================= */

func GetMyOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := svc.ListForUser(ctx, caller)
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
