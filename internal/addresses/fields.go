package addresses

import (
	"strings"

	"storefront/internal/models"
)

// Normalize trims every field and lower-cases the email.
func Normalize(a models.ShippingAddress) models.ShippingAddress {
	return models.ShippingAddress{
		Name:    strings.TrimSpace(a.Name),
		Email:   strings.ToLower(strings.TrimSpace(a.Email)),
		Number:  strings.TrimSpace(a.Number),
		Address: strings.TrimSpace(a.Address),
		City:    strings.TrimSpace(a.City),
		Zipcode: strings.TrimSpace(a.Zipcode),
		Region:  strings.TrimSpace(a.Region),
		Country: strings.TrimSpace(a.Country),
	}
}

// MissingFields lists a "<field> is required" detail for every blank field.
func MissingFields(a models.ShippingAddress) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"email", a.Email},
		{"number", a.Number},
		{"address", a.Address},
		{"city", a.City},
		{"zipcode", a.Zipcode},
		{"region", a.Region},
		{"country", a.Country},
	}

	var details []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			details = append(details, f.name+" is required")
		}
	}
	return details
}

func toDocument(a models.ShippingAddress) models.Address {
	return models.Address{
		Name:    a.Name,
		Email:   a.Email,
		Number:  a.Number,
		Address: a.Address,
		City:    a.City,
		Zipcode: a.Zipcode,
		Region:  a.Region,
		Country: a.Country,
	}
}
