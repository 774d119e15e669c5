package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Variant identifies a size/color combination of a product. Either selector
// may be empty for products that don't track that dimension.
type Variant struct {
	Size  string `bson:"size,omitempty" json:"size,omitempty"`
	Color string `bson:"color,omitempty" json:"color,omitempty"`
}

// Key returns the variantStock map key for this variant, empty when the
// product tracks a single total counter only.
func (v Variant) Key() string {
	if v.Size == "" && v.Color == "" {
		return ""
	}
	return v.Size + "|" + v.Color
}

type Product struct {
	ID              primitive.ObjectID `json:"productId,omitempty" bson:"_id,omitempty"`
	Name            string             `bson:"name" json:"name" validate:"required"`
	Brand           string             `bson:"brand" json:"brand"`
	Description     string             `bson:"description" json:"description"`
	SKU             string             `bson:"sku" json:"sku"`
	Price           float64            `bson:"price" json:"price" validate:"required,gt=0"`
	DiscountedPrice float64            `bson:"discountedPrice,omitempty" json:"discountedPrice,omitempty"`
	Category        string             `bson:"category" json:"category"`
	Images          []string           `bson:"images" json:"images"`
	IsActive        bool               `bson:"isActive" json:"isActive"`

	// Stock is the aggregate counter; VariantStock holds per size/color
	// counters when the product tracks variants. The stock ledger keeps the
	// aggregate consistent with the variant entries.
	Stock        int            `bson:"stock" json:"stock"`
	VariantStock map[string]int `bson:"variantStock,omitempty" json:"variantStock,omitempty"`
	SoldCount    int            `bson:"soldCount" json:"soldCount"`
}

// TracksVariants reports whether stock is maintained per size/color.
func (p *Product) TracksVariants() bool {
	return len(p.VariantStock) > 0
}

// AvailableStock returns the counter relevant to the given variant.
func (p *Product) AvailableStock(v Variant) int {
	if key := v.Key(); key != "" && p.TracksVariants() {
		return p.VariantStock[key]
	}
	return p.Stock
}

// EffectivePrice is the discounted price when one is set, else the list price.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice > 0 && p.DiscountedPrice < p.Price {
		return p.DiscountedPrice
	}
	return p.Price
}

// FirstImage returns the primary product image, empty when none exist.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
