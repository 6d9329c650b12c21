package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/middleware"
)

const storeTimeout = 5 * time.Second

// Validation details name fields the way clients send them.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// respondAppError maps a classified error onto the response. Internal and
// unavailable errors are logged in full but only their generic message is
// returned.
func respondAppError(c *gin.Context, route string, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("[%s] unclassified error: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
		return
	}

	status := appErr.Kind.HTTPStatus()
	switch appErr.Kind {
	case apperr.KindInternal, apperr.KindUnavailable:
		if appErr.Err != nil {
			log.Printf("[%s] %s: %v", route, appErr.Message, appErr.Err)
		}
	case apperr.KindValidation:
		log.Printf("[%s] returning error %d: %s %v", route, status, appErr.Message, appErr.Details)
		body := gin.H{"success": false, "error": appErr.Message}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		c.AbortWithStatusJSON(status, body)
		return
	}
	respondWithError(c, status, route, appErr.Message)
}

func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min", "gte":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "oneof":
				details = append(details, fmt.Sprintf("%s must be one of %s", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		respondAppError(c, route, apperr.Validation("validation failed", details...))
		return
	}

	respondAppError(c, route, apperr.Validation("invalid body"))
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// callerID reads the id UserAuth stored; routes without it are a wiring bug
// that the client sees as 401.
func callerID(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondAppError(c, route, apperr.Authentication("unauthorized"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func objectIDParam(c *gin.Context, route, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		respondAppError(c, route, apperr.Validation("invalid "+name, name+" must be a valid id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseObjectID(field, value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(value))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid "+field, field+" must be a valid id")
	}
	return id, nil
}

func storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}
