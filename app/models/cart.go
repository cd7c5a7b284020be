package models

import "gorm.io/gorm"

// Cart is created once per user at registration and survives checkout;
// only its items are cleared.
type Cart struct {
	gorm.Model
	UserID uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem is one product line in a cart. A product appears at most once;
// adding it again merges quantities.
type CartItem struct {
	gorm.Model
	CartID    uint    `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Product   Product `json:"product"`
}

// CartTotals is computed live from current product prices, never stored.
type CartTotals struct {
	TotalItems        int   `json:"total_items"`
	TotalCents        int64 `json:"total_cents"`
	TotalCompareCents int64 `json:"total_compare_cents"`
	TotalSavingsCents int64 `json:"total_savings_cents"`
}
