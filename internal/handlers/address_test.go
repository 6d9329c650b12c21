package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestGetAddressReturnsNullWhenMissing(t *testing.T) {
	caller := primitive.NewObjectID()
	r := authed(http.MethodGet, "/address", GetAddress(&fakeAddresses{}))

	rec := send(r, http.MethodGet, "/address", bearer(t, caller), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(decode(t, rec.Body.Bytes()).Data))
}

func TestGetAddressOnlyForCaller(t *testing.T) {
	caller := primitive.NewObjectID()
	store := &fakeAddresses{saved: map[primitive.ObjectID]*models.Address{
		caller: {UserID: caller, City: "Khulna"},
	}}
	r := authed(http.MethodGet, "/address", GetAddress(store))
	auth := bearer(t, caller)

	rec := send(r, http.MethodGet, "/address?userId="+caller.Hex(), auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Khulna")

	rec = send(r, http.MethodGet, "/address?userId="+primitive.NewObjectID().Hex(), auth, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(r, http.MethodGet, "/address?userId=abc", auth, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
