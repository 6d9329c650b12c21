package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
)

// GetProducts lists the published catalog. Pagination only applies when both
// page and limit are given.
func GetProducts(store CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		filter := catalog.ListFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
		}

		pageStr, limitStr := c.Query("page"), c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondAppError(c, route, err)
				return
			}
			filter.Page, filter.Limit = page, limit
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		products, total, err := store.List(ctx, filter)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"products": products,
			"pagination": gin.H{
				"page":  filter.Page,
				"limit": filter.Limit,
				"total": total,
			},
		})
	}
}

func GetProduct(store CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:slug"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		product, err := store.GetBySlug(ctx, c.Param("slug"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}
