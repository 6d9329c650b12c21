package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

type addressRequest struct {
	UserID string `json:"userId"`
	models.ShippingAddress
}

// ownAddressTarget resolves the optional userId in a query or body. It may
// only ever name the caller.
func ownAddressTarget(c *gin.Context, route string, caller primitive.ObjectID, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	target, err := parseObjectID("userId", raw)
	if err != nil {
		respondAppError(c, route, err)
		return false
	}
	if target != caller {
		respondAppError(c, route, apperr.Authorization("user mismatch"))
		return false
	}
	return true
}

func CreateAddress(store AddressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /address-create"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if !ownAddressTarget(c, route, caller, req.UserID) {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		address, err := store.Create(ctx, caller, req.ShippingAddress)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": address})
	}
}

func UpdateAddress(store AddressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /address-update"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		if !ownAddressTarget(c, route, caller, req.UserID) {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		address, err := store.Update(ctx, caller, req.ShippingAddress)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": address})
	}
}

func GetAddress(store AddressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /address"
		defer handlePanic(c, route)

		caller, ok := callerID(c, route)
		if !ok {
			return
		}
		if !ownAddressTarget(c, route, caller, c.Query("userId")) {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		address, err := store.Get(ctx, caller)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		// data is null when the user has not saved an address yet.
		c.JSON(http.StatusOK, gin.H{"success": true, "data": address})
	}
}
