package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductVariant carries its own stock and a price adjustment on top of the
// product price.
type ProductVariant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Color         string             `bson:"color,omitempty" json:"color,omitempty"`
	Size          string             `bson:"size,omitempty" json:"size,omitempty"`
	Stock         int                `bson:"stock" json:"stock"`
	PriceModifier float64            `bson:"priceModifier" json:"priceModifier"`
}

func (v ProductVariant) Matches(want Variant) bool {
	return v.Color == want.Color && v.Size == want.Size
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags        StringList         `bson:"tags,omitempty" json:"tags,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	SaleEnabled bool               `bson:"saleEnabled" json:"saleEnabled"`
	SalePrice   float64            `bson:"salePrice" json:"salePrice"`
	IsOnSale    bool               `bson:"-" json:"isOnSale"`
	Stock       int                `bson:"stock" json:"stock"`
	InStock     bool               `bson:"-" json:"inStock"`
	SKU         string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Variants    []ProductVariant   `bson:"variants,omitempty" json:"variants,omitempty"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OnSale reports whether the sale price currently applies. A sale price that
// is not below the list price is ignored.
func (p Product) OnSale() bool {
	return p.SaleEnabled && p.SalePrice > 0 && p.SalePrice < p.Price
}

// EffectivePrice is what the base product sells for before variant modifiers.
func (p Product) EffectivePrice() float64 {
	if p.OnSale() {
		return p.SalePrice
	}
	return p.Price
}

// FindVariant returns the index of the variant matching want, or -1.
func (p Product) FindVariant(want Variant) int {
	for i, v := range p.Variants {
		if v.Matches(want) {
			return i
		}
	}
	return -1
}
