package checkout

import (
	"strings"

	"storefront/internal/addresses"
	"storefront/internal/models"
	"storefront/internal/orders"
)

// MobileWallet is the umbrella method picked at checkout; the provider names
// the concrete wallet.
const MobileWallet = "MobileWallet"

type Request struct {
	Items           []orders.LineInput
	PaymentMethod   string
	Provider        string
	TrxID           string
	Notes           string
	ShippingAddress models.ShippingAddress
	TotalAmount     *float64
}

// resolveMethod maps the checkout choice onto a concrete payment method.
func resolveMethod(method, provider string) (models.PaymentMethod, []string) {
	method = strings.TrimSpace(method)
	provider = strings.TrimSpace(provider)

	if method == "" {
		return "", []string{"paymentMethod is required"}
	}

	if strings.EqualFold(method, MobileWallet) {
		if provider == "" {
			return "", []string{"provider is required for mobile wallet payments"}
		}
		wallet, ok := models.ParsePaymentMethod(provider)
		if !ok || !wallet.IsMobileWallet() {
			return "", []string{"provider must be one of bKash, Nagad, Rocket"}
		}
		return wallet, nil
	}

	parsed, ok := models.ParsePaymentMethod(method)
	if !ok {
		return "", []string{"paymentMethod must be one of MobileWallet, bKash, Nagad, Rocket, CashOnDelivery"}
	}
	if provider != "" && parsed.IsMobileWallet() && !strings.EqualFold(provider, string(parsed)) {
		return "", []string{"provider does not match paymentMethod"}
	}
	return parsed, nil
}

// preconditions runs every check that needs no write, in the order a
// customer fills in the form, and reports all problems at once.
func preconditions(req Request, items []orders.LineInput) (models.PaymentMethod, []string) {
	method, problems := resolveMethod(req.PaymentMethod, req.Provider)

	if len(items) == 0 {
		problems = append(problems, "cart is empty")
	}

	for _, missing := range addresses.MissingFields(req.ShippingAddress) {
		problems = append(problems, "shippingAddress."+missing)
	}

	if method.IsMobileWallet() && strings.TrimSpace(req.TrxID) == "" {
		problems = append(problems, "trxId is required for mobile wallet payments")
	}
	return method, problems
}

func cartLines(cart *models.Cart) []orders.LineInput {
	if cart == nil {
		return nil
	}
	lines := make([]orders.LineInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, orders.LineInput{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
			Variant:   item.Variant,
		})
	}
	return lines
}
