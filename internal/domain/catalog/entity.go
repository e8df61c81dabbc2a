// internal/domain/catalog/entity.go
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a product's unit of sale
type Unit string

const (
	UnitPound Unit = "lb"
	UnitKilo  Unit = "kg"
	UnitPack  Unit = "pack"
)

// IsWeight reports whether the true price depends on a measured weight
func (u Unit) IsWeight() bool {
	switch Unit(strings.ToLower(string(u))) {
	case UnitPound, UnitKilo:
		return true
	}
	return false
}

// Product represents a sellable item as published by the storefront API
type Product struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Unit           Unit                `json:"unit"`
	Price          decimal.Decimal     `json:"price"`
	WholesalePrice decimal.NullDecimal `json:"wholesale_price"`
	Stock          *int                `json:"stock"` // nil means unlimited
	Active         bool                `json:"active"`
	CategoryID     *string             `json:"category_id,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
}

// EffectivePrice returns the wholesale price when requested and published
func (p *Product) EffectivePrice(wholesale bool) decimal.Decimal {
	if wholesale && p.WholesalePrice.Valid {
		return p.WholesalePrice.Decimal
	}
	return p.Price
}

// HasUnlimitedStock returns true when no stock limit applies
func (p *Product) HasUnlimitedStock() bool {
	return p.Stock == nil
}

// Category groups products on the storefront
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

// ProductInput is the admin create/update payload
type ProductInput struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	Unit           Unit             `json:"unit" binding:"required,oneof=lb kg pack"`
	Price          decimal.Decimal  `json:"price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	Stock          *int             `json:"stock" binding:"omitempty,min=0"`
	Active         bool             `json:"active"`
	CategoryID     *string          `json:"category_id"`
	ImageURL       string           `json:"image_url"`
}

// CategoryInput is the admin create/update payload for categories
type CategoryInput struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}
