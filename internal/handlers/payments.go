package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/payments"
)

type createPaymentRequest struct {
	OrderID  string   `json:"orderId" binding:"required"`
	Method   string   `json:"method" binding:"required"`
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
	TrxID    string   `json:"trxId"`
	Notes    string   `json:"notes"`
	Status   string   `json:"status"`
}

func CreatePayment(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment-create"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		orderID, err := parseObjectID("orderId", req.OrderID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		payment, err := svc.Create(ctx, caller, payments.CreateInput{
			OrderID:  orderID,
			Method:   req.Method,
			Amount:   req.Amount,
			Currency: req.Currency,
			TrxID:    req.TrxID,
			Notes:    req.Notes,
			Status:   req.Status,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "payment": payment})
	}
}

func GetMyPayments(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payments"
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
			list = []payments.View{}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": list})
	}
}
