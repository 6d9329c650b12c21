package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

type setCartItemRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Quantity  *int            `json:"quantity" binding:"required,gte=0"`
	Variant   *models.Variant `json:"variant"`
}

func GetCart(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		cart, err := store.Get(ctx, caller)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

// SetCartItem sets the quantity of one line. Zero removes it.
func SetCartItem(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req setCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		productID, err := parseObjectID("productId", req.ProductID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		cart, err := store.SetItem(ctx, caller, productID, req.Variant, *req.Quantity)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

func RemoveCartItem(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}
		productID, ok := objectIDParam(c, route, "productId")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		cart, err := store.RemoveItem(ctx, caller, productID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": cart})
	}
}

func ClearCart(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := store.Clear(ctx, caller); err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
	}
}
