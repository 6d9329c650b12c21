package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

type checkoutRequest struct {
	Items           []lineItemRequest      `json:"items"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Provider        string                 `json:"provider"`
	TrxID           string                 `json:"trxId"`
	Notes           string                 `json:"notes"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	TotalAmount     *float64               `json:"totalAmount"`
}

// PlaceOrder runs the whole checkout server side. Omitting items checks out
// the caller's saved cart.
func PlaceOrder(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		result, err := svc.Place(ctx, caller, checkout.Request{
			Items:           toLineInputs(req.Items),
			PaymentMethod:   req.PaymentMethod,
			Provider:        req.Provider,
			TrxID:           req.TrxID,
			Notes:           req.Notes,
			ShippingAddress: req.ShippingAddress,
			TotalAmount:     req.TotalAmount,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"order":        result.Order,
			"payment":      result.Payment,
			"addressSaved": result.AddressSaved,
		})
	}
}
