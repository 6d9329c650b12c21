package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/payments"
)

type adminUpdatePaymentRequest struct {
	Status string `json:"status" binding:"required"`
}

func AdminListTransactions(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/transactions"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, total, err := svc.List(ctx, payments.ListFilter{
			Status: c.Query("status"),
			Method: c.Query("method"),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if list == nil {
			list = []payments.View{}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    list,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

func AdminGetTransaction(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/transaction/:id"
		defer handlePanic(c, route)

		paymentID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		view, err := svc.Get(ctx, paymentID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
	}
}

func AdminUpdateTransaction(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/transaction/:id"
		defer handlePanic(c, route)

		actor, ok := callerID(c, route)
		if !ok {
			return
		}
		paymentID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req adminUpdatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		status, valid := models.ParsePaymentStatus(req.Status)
		if !valid {
			respondAppError(c, route, apperr.Validation("invalid status",
				"status must be one of pending, processing, confirmed, failed, cancelled, refunded"))
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		payment, err := svc.SetStatus(ctx, actor, paymentID, status)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": payment})
	}
}
