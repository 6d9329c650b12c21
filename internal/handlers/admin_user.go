package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

type adminUpdateUserRequest struct {
	Role          string `json:"role"`
	AccountStatus string `json:"accountStatus"`
}

func AdminUpdateUser(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/users/:id"
		defer handlePanic(c, route)

		actor, ok := callerID(c, route)
		if !ok {
			return
		}
		userID, ok := objectIDParam(c, route, "id")
		if !ok {
			return
		}

		var req adminUpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		var role *models.Role
		var status *models.AccountStatus
		var problems []string
		if raw := strings.ToLower(strings.TrimSpace(req.Role)); raw != "" {
			r := models.Role(raw)
			if !r.IsValid() {
				problems = append(problems, "role must be one of user, manager, admin")
			}
			role = &r
		}
		if raw := strings.ToLower(strings.TrimSpace(req.AccountStatus)); raw != "" {
			s := models.AccountStatus(raw)
			if !s.IsValid() {
				problems = append(problems, "accountStatus must be one of active, suspended, deleted")
			}
			status = &s
		}
		if len(problems) > 0 {
			respondAppError(c, route, apperr.Validation("invalid user update", problems...))
			return
		}
		if role == nil && status == nil {
			respondAppError(c, route, apperr.Validation("nothing to update", "role or accountStatus is required"))
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, err := svc.SetRoleAndStatus(ctx, actor, userID, role, status)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	}
}
