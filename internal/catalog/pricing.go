package catalog

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// Quote is the price a product line sells for right now.
type Quote struct {
	ProductID primitive.ObjectID
	Name      string
	UnitPrice decimal.Decimal
	Available int
}

// UnitPrice is the effective product price plus the variant modifier,
// rounded to cents. A named variant must exist on the product.
func UnitPrice(product models.Product, variant *models.Variant) (decimal.Decimal, int, error) {
	price := decimal.NewFromFloat(product.EffectivePrice())
	if variant.IsZero() {
		return price.Round(2), product.Stock, nil
	}

	idx := product.FindVariant(*variant)
	if idx < 0 {
		return decimal.Zero, 0, apperr.Validation("variant not available",
			"variant "+describeVariant(*variant)+" not found for "+product.Name)
	}

	v := product.Variants[idx]
	unit := price.Add(decimal.NewFromFloat(v.PriceModifier)).Round(2)
	if unit.IsNegative() {
		return decimal.Zero, 0, apperr.Validation("variant not available",
			"variant "+describeVariant(*variant)+" has a negative price")
	}
	return unit, v.Stock, nil
}

func describeVariant(v models.Variant) string {
	switch {
	case v.Color != "" && v.Size != "":
		return v.Color + "/" + v.Size
	case v.Color != "":
		return v.Color
	default:
		return v.Size
	}
}
