package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/models"
)

func fullAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Name: "Rahim", Email: "rahim@example.com", Number: "01700000000",
		Address: "House 1, Road 2", City: "Dhaka", Zipcode: "1207",
		Region: "Dhaka", Country: "Bangladesh",
	}
}

func fee(v float64) *float64 { return &v }

func TestNormalizeAcceptsValidInput(t *testing.T) {
	productID := primitive.NewObjectID()
	in := CreateOrderInput{
		Items: []LineInput{
			{ProductID: productID.Hex(), Quantity: 2, Variant: &models.Variant{Color: " red "}},
			{ProductID: productID.Hex(), Quantity: 1, Variant: &models.Variant{}},
		},
		ShippingAddress: fullAddress(),
	}

	lines, address, shipping, err := in.normalize(60)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, productID, lines[0].productID)
	assert.Equal(t, "red", lines[0].variant.Color)
	assert.Nil(t, lines[1].variant)
	assert.Equal(t, "Dhaka", address.City)
	assert.Equal(t, 60.0, shipping)
}

func TestNormalizeCollectsProblems(t *testing.T) {
	in := CreateOrderInput{
		Items: []LineInput{
			{ProductID: "nope", Quantity: 1},
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 0},
		},
		ShippingFee: fee(-1),
	}

	_, _, _, err := in.normalize(60)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "items[0].productId is invalid")
	assert.Contains(t, appErr.Details, "items[1].quantity must be at least 1")
	assert.Contains(t, appErr.Details, "shippingFee cannot be negative")
	assert.Contains(t, appErr.Details, "shippingAddress.city is required")
}

func TestNormalizeRequiresItems(t *testing.T) {
	_, _, _, err := CreateOrderInput{ShippingAddress: fullAddress()}.normalize(60)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"at least one item is required"}, appErr.Details)
}

func TestPriceLinesUsesExactArithmetic(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	lines := []line{
		{productID: a, quantity: 3},
		{productID: b, quantity: 1, variant: &models.Variant{Size: "L"}},
	}
	quotes := []catalog.Quote{
		{ProductID: a, Name: "Mug", UnitPrice: decimal.RequireFromString("0.10")},
		{ProductID: b, Name: "Shirt", UnitPrice: decimal.RequireFromString("0.20")},
	}

	items, total := priceLines(lines, quotes)

	require.Len(t, items, 2)
	assert.Equal(t, "0.50", total.StringFixed(2))
	assert.Equal(t, 0.30, items[0].TotalPrice)
	assert.Equal(t, "Mug", items[0].Name)
	assert.Equal(t, 0.2, items[1].UnitPrice)
	assert.Equal(t, "L", items[1].Variant.Size)
}

func TestVerifyTotal(t *testing.T) {
	server := decimal.RequireFromString("150.00")

	assert.NoError(t, verifyTotal(nil, server))
	assert.NoError(t, verifyTotal(fee(150), server))

	err := verifyTotal(fee(99.99), server)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"expected totalAmount 150.00, got 99.99"}, appErr.Details)
}

func TestCheckAvailabilitySumsRepeatedLines(t *testing.T) {
	shirt := primitive.NewObjectID()
	lines := []line{
		{productID: shirt, quantity: 2, variant: &models.Variant{Size: "M"}},
		{productID: shirt, quantity: 2, variant: &models.Variant{Size: "M"}},
		{productID: shirt, quantity: 1, variant: &models.Variant{Size: "L"}},
	}
	quotes := []catalog.Quote{
		{ProductID: shirt, Name: "Shirt (M)", Available: 3},
		{ProductID: shirt, Name: "Shirt (M)", Available: 3},
		{ProductID: shirt, Name: "Shirt (L)", Available: 1},
	}

	err := checkAvailability(lines, quotes)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, "insufficient stock for Shirt (M): requested 4, available 3", appErr.Message)

	quotes[0].Available, quotes[1].Available = 4, 4
	assert.NoError(t, checkAvailability(lines, quotes))
}
