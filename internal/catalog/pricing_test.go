package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

func shirt() models.Product {
	return models.Product{
		Name:  "Shirt",
		Price: 19.99,
		Stock: 4,
		Variants: []models.ProductVariant{
			{Color: "red", Size: "M", Stock: 2, PriceModifier: 5.005},
			{Size: "XL", Stock: 0, PriceModifier: -30},
		},
	}
}

func TestUnitPriceWithoutVariantUsesProductPrice(t *testing.T) {
	unit, available, err := UnitPrice(shirt(), nil)
	require.NoError(t, err)
	assert.Equal(t, "19.99", unit.StringFixed(2))
	assert.Equal(t, 4, available)
}

func TestUnitPriceAddsVariantModifier(t *testing.T) {
	unit, available, err := UnitPrice(shirt(), &models.Variant{Color: "red", Size: "M"})
	require.NoError(t, err)
	assert.Equal(t, "25.00", unit.StringFixed(2))
	assert.Equal(t, 2, available)
}

func TestUnitPriceRejectsUnknownVariant(t *testing.T) {
	_, _, err := UnitPrice(shirt(), &models.Variant{Color: "blue"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUnitPriceRejectsNegativeVariantPrice(t *testing.T) {
	_, _, err := UnitPrice(shirt(), &models.Variant{Size: "XL"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestVariantMatchTreatsEmptyFieldsAsUnset(t *testing.T) {
	match := variantMatch(models.Variant{Size: "XL"}, bson.M{"stock": bson.M{"$gte": 1}})

	assert.Equal(t, "XL", match["size"])
	assert.Equal(t, bson.M{"$in": bson.A{nil, ""}}, match["color"])
	assert.Equal(t, bson.M{"$gte": 1}, match["stock"])
}

func TestMarkInStockConsidersVariants(t *testing.T) {
	p := models.Product{Stock: 0, Variants: []models.ProductVariant{{Stock: 3}}}
	markInStock(&p)
	assert.True(t, p.InStock)

	p = models.Product{Stock: 0}
	markInStock(&p)
	assert.False(t, p.InStock)
}

func TestUnitPriceUsesSalePrice(t *testing.T) {
	p := shirt()
	p.SaleEnabled = true
	p.SalePrice = 15

	unit, _, err := UnitPrice(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "15.00", unit.StringFixed(2))

	unit, _, err = UnitPrice(p, &models.Variant{Color: "red", Size: "M"})
	require.NoError(t, err)
	assert.Equal(t, "20.01", unit.StringFixed(2))
}

func TestUnitPriceIgnoresSalePriceAboveList(t *testing.T) {
	p := shirt()
	p.SaleEnabled = true
	p.SalePrice = 25

	unit, _, err := UnitPrice(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "19.99", unit.StringFixed(2))
}

func TestDecorateMarksSale(t *testing.T) {
	p := models.Product{Price: 10, SaleEnabled: true, SalePrice: 8, Stock: 1}
	decorate(&p)
	assert.True(t, p.IsOnSale)
	assert.True(t, p.InStock)
}
