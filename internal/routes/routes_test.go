package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/users"
)

const secret = "routes-secret"

type directory struct {
	handlers.UserService
	roles map[primitive.ObjectID]models.Role
}

func (d directory) Role(_ context.Context, id primitive.ObjectID) (models.Role, models.AccountStatus, error) {
	role, ok := d.roles[id]
	if !ok {
		return "", "", apperr.NotFound("user not found")
	}
	return role, models.AccountActive, nil
}

type statusCounter struct {
	handlers.OrderService
}

func (statusCounter) CountByStatus(context.Context) ([]orders.StatusCount, error) {
	return []orders.StatusCount{{Status: models.OrderStatusPending, Count: 2}}, nil
}

func newEngine(t *testing.T, roles map[primitive.ObjectID]models.Role, ping error) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Setup(r, Deps{
		JWTSecret:   secret,
		CORSOrigins: []string{"*"},
		Users:       directory{roles: roles},
		Orders:      statusCounter{},
		Ping:        func(context.Context) error { return ping },
	})
	return r
}

func request(r http.Handler, method, path string, user primitive.ObjectID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if !user.IsZero() {
		token, _ := users.IssueToken(models.User{ID: user, Role: models.RoleAdmin}, secret, time.Minute)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesReReadRole(t *testing.T) {
	manager := primitive.NewObjectID()
	customer := primitive.NewObjectID()
	r := newEngine(t, map[primitive.ObjectID]models.Role{
		manager:  models.RoleManager,
		customer: models.RoleUser,
	}, nil)
	path := "/api/admin/statistics/orders-by-status"

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, path, primitive.NilObjectID).Code)
	// The token claims admin, storage says user.
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, path, customer).Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, path, primitive.NewObjectID()).Code)

	rec := request(r, http.MethodGet, path, manager)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Pending"`)
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	manager := primitive.NewObjectID()
	r := newEngine(t, map[primitive.ObjectID]models.Role{manager: models.RoleManager}, nil)

	rec := request(r, http.MethodPut, "/api/admin/users/"+primitive.NewObjectID().Hex(), manager)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthz(t *testing.T) {
	assert.Equal(t, http.StatusOK, request(newEngine(t, nil, nil), http.MethodGet, "/healthz", primitive.NilObjectID).Code)

	rec := request(newEngine(t, nil, errors.New("down")), http.MethodGet, "/healthz", primitive.NilObjectID)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	rec := request(newEngine(t, nil, nil), http.MethodGet, "/healthz", primitive.NilObjectID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	cfg := corsConfig([]string{"https://shop.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
}
