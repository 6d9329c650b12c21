package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

const roleKey = "role"

// RoleLookup reads the authoritative role of a user.
type RoleLookup interface {
	Role(ctx context.Context, userID primitive.ObjectID) (models.Role, models.AccountStatus, error)
}

// RequireRole must run after UserAuth. The token only identifies the caller;
// role and account status are re-read from storage on every request.
func RequireRole(lookup RoleLookup, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		role, status, err := lookup.Role(ctx, userID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
				return
			}
			log.Println("[AUTH] [ERROR] role lookup failed:", err)
			kind := apperr.KindOf(err)
			c.AbortWithStatusJSON(kind.HTTPStatus(), gin.H{"success": false, "error": "role lookup failed"})
			return
		}

		if status != models.AccountActive {
			log.Printf("[AUTH] [WARN] %s account is %s", userID.Hex(), status)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if role == r {
					match = true
					break
				}
			}
			if !match {
				log.Printf("[AUTH] [WARN] %s with role %q denied", userID.Hex(), role)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
				return
			}
		}

		c.Set(roleKey, role)
		c.Next()
	}
}

// StaffOnly admits admins and managers.
func StaffOnly(lookup RoleLookup) gin.HandlerFunc {
	return RequireRole(lookup, models.RoleAdmin, models.RoleManager)
}

// AdminOnly admits admins.
func AdminOnly(lookup RoleLookup) gin.HandlerFunc {
	return RequireRole(lookup, models.RoleAdmin)
}
