package models

import "gorm.io/gorm"

// Product represents a product in the catalogue. Prices are integer cents;
// ComparePriceCents is the optional pre-discount price shown struck through.
type Product struct {
	gorm.Model
	Name              string `gorm:"size:255;not null;index" json:"name"`
	Slug              string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	SKU               string `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Description       string `gorm:"type:text" json:"description"`
	Category          string `gorm:"size:100;index" json:"category"`
	PriceCents        int64  `gorm:"not null;default:0" json:"price_cents"`
	ComparePriceCents int64  `gorm:"not null;default:0" json:"compare_price_cents"`
	StockQuantity     int    `gorm:"not null;default:0" json:"stock_quantity"`
	// No DB default: GORM drops zero-valued fields that carry one from the
	// INSERT, which would flip an explicit false back to true. Every insert
	// path sets the field itself.
	IsActive bool `gorm:"not null" json:"is_active"`
}

// EffectiveComparePrice falls back to the selling price when no compare
// price is set, so savings compute to zero instead of going negative.
func (p *Product) EffectiveComparePrice() int64 {
	if p.ComparePriceCents > p.PriceCents {
		return p.ComparePriceCents
	}
	return p.PriceCents
}

// InStock reports whether qty units can currently be taken.
func (p *Product) InStock(qty int) bool {
	return p.IsActive && p.StockQuantity >= qty
}
