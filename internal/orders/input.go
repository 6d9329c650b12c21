package orders

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/addresses"
	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/models"
)

// LineInput is one requested line. Prices are never taken from the client.
type LineInput struct {
	ProductID string
	Quantity  int
	Variant   *models.Variant
}

type CreateOrderInput struct {
	UserID          primitive.ObjectID
	Items           []LineInput
	TotalAmount     *float64
	ShippingAddress models.ShippingAddress
	ShippingFee     *float64
}

type line struct {
	productID primitive.ObjectID
	quantity  int
	variant   *models.Variant
}

// normalize checks the request shape before anything is read from storage.
func (in CreateOrderInput) normalize(defaultFee float64) ([]line, models.ShippingAddress, float64, error) {
	var problems []string

	if len(in.Items) == 0 {
		problems = append(problems, "at least one item is required")
	}

	lines := make([]line, 0, len(in.Items))
	for i, item := range in.Items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			problems = append(problems, fmt.Sprintf("items[%d].productId is invalid", i))
			continue
		}
		if item.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("items[%d].quantity must be at least 1", i))
			continue
		}
		var variant *models.Variant
		if !item.Variant.IsZero() {
			variant = &models.Variant{
				Color: strings.TrimSpace(item.Variant.Color),
				Size:  strings.TrimSpace(item.Variant.Size),
			}
		}
		lines = append(lines, line{productID: productID, quantity: item.Quantity, variant: variant})
	}

	fee := defaultFee
	if in.ShippingFee != nil {
		fee = *in.ShippingFee
	}
	if fee < 0 {
		problems = append(problems, "shippingFee cannot be negative")
	}

	if in.TotalAmount != nil && *in.TotalAmount < 0 {
		problems = append(problems, "totalAmount cannot be negative")
	}

	address := addresses.Normalize(in.ShippingAddress)
	for _, missing := range addresses.MissingFields(address) {
		problems = append(problems, "shippingAddress."+missing)
	}

	if len(problems) > 0 {
		return nil, models.ShippingAddress{}, 0, apperr.Validation("invalid order", problems...)
	}
	return lines, address, decimal.NewFromFloat(fee).Round(2).InexactFloat64(), nil
}

// priceLines snapshots unit prices and returns the line items with their
// exact total.
func priceLines(lines []line, quotes []catalog.Quote) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		q := quotes[i]
		lineTotal := q.UnitPrice.Mul(decimal.NewFromInt(int64(l.quantity))).Round(2)
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:  l.productID,
			Name:       q.Name,
			Quantity:   l.quantity,
			UnitPrice:  q.UnitPrice.InexactFloat64(),
			TotalPrice: lineTotal.InexactFloat64(),
			Variant:    l.variant,
		})
	}
	return items, total
}

// checkAvailability compares the summed quantity per product variant with the
// stock the quotes saw. Reserve still guards the write; this only turns a
// known shortage into a readable message before anything is touched.
func checkAvailability(lines []line, quotes []catalog.Quote) error {
	type stockKey struct {
		productID   primitive.ObjectID
		color, size string
	}
	requested := make(map[stockKey]int, len(lines))
	order := make([]stockKey, 0, len(lines))
	available := make(map[stockKey]catalog.Quote, len(lines))

	for i, l := range lines {
		key := stockKey{productID: l.productID}
		if l.variant != nil {
			key.color, key.size = l.variant.Color, l.variant.Size
		}
		if _, seen := requested[key]; !seen {
			order = append(order, key)
			available[key] = quotes[i]
		}
		requested[key] += l.quantity
	}

	for _, key := range order {
		q := available[key]
		if requested[key] > q.Available {
			return apperr.Conflict(fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
				q.Name, requested[key], q.Available))
		}
	}
	return nil
}

// verifyTotal rejects a client total that disagrees with the server figure.
func verifyTotal(client *float64, server decimal.Decimal) error {
	if client == nil {
		return nil
	}
	claimed := decimal.NewFromFloat(*client).Round(2)
	if !claimed.Equal(server) {
		return apperr.Validation("totalAmount does not match current prices",
			fmt.Sprintf("expected totalAmount %s, got %s", server.StringFixed(2), claimed.StringFixed(2)))
	}
	return nil
}
