package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/orders"
)

type adminUpdateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// parseAdminUpdate turns the raw body into typed statuses. At least one of
// the two has to be present.
func parseAdminUpdate(req adminUpdateOrderRequest) (orders.AdminUpdateInput, error) {
	var in orders.AdminUpdateInput
	var problems []string

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := models.ParseOrderStatus(raw)
		if !ok {
			problems = append(problems, "status must be one of Pending, Processing, Shipped, Delivered, Cancelled, Refunded")
		} else {
			in.Status = &status
		}
	}
	if raw := strings.TrimSpace(req.PaymentStatus); raw != "" {
		status, ok := models.ParsePaymentStatus(raw)
		if !ok {
			problems = append(problems, "paymentStatus must be one of pending, processing, confirmed, failed, cancelled, refunded")
		} else {
			in.PaymentStatus = &status
		}
	}

	if len(problems) > 0 {
		return in, apperr.Validation("invalid status", problems...)
	}
	if in.Status == nil && in.PaymentStatus == nil {
		return in, apperr.Validation("nothing to update", "status or paymentStatus is required")
	}
	return in, nil
}

func AdminListOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		filter := orders.ListFilter{
			Search:   c.Query("search"),
			SearchBy: orders.SearchBy(c.Query("searchBy")),
			Status:   c.Query("status"),
			Page:     page,
			Limit:    limit,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, total, err := svc.List(ctx, filter)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if list == nil {
			list = []orders.View{}
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

func AdminGetOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/order/:id"
		defer handlePanic(c, route)

		orderID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		view, err := svc.Get(ctx, orderID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
	}
}

// AdminUpdateOrder changes the order status, the linked payment status, or
// both in one transaction.
func AdminUpdateOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/order/:id"
		defer handlePanic(c, route)

		actor, ok := callerID(c, route)
		if !ok {
			return
		}
		orderID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req adminUpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		in, err := parseAdminUpdate(req)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		result, err := svc.AdminUpdate(ctx, actor, orderID, in)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		body := gin.H{"success": true, "data": result.Order}
		if result.Payment != nil {
			body["payment"] = result.Payment
		}
		c.JSON(http.StatusOK, body)
	}
}
