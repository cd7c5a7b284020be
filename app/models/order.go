package models

import "gorm.io/gorm"

// Order is a placed order. SubtotalCents always equals the sum of its
// items' SubtotalCents.
type Order struct {
	gorm.Model
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	Number        string      `gorm:"size:64;uniqueIndex;not null" json:"number"`
	Status        OrderStatus `gorm:"size:32;not null;default:pending;index" json:"status"`
	SubtotalCents int64       `gorm:"not null;default:0" json:"subtotal_cents"`
	TotalCents    int64       `gorm:"not null;default:0" json:"total_cents"`
	ShippingName  string      `gorm:"size:255" json:"shipping_name"`
	ShippingAddr  string      `gorm:"type:text" json:"shipping_address"`
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Payment       *Payment    `json:"payment,omitempty"`
}

// OrderItem snapshots the product at purchase time. Later edits to the
// product do not touch these fields.
type OrderItem struct {
	gorm.Model
	OrderID        uint   `gorm:"not null;index" json:"order_id"`
	ProductID      uint   `gorm:"not null;index" json:"product_id"`
	ProductName    string `gorm:"size:255;not null" json:"product_name"`
	ProductSKU     string `gorm:"size:100;not null" json:"product_sku"`
	UnitPriceCents int64  `gorm:"not null" json:"unit_price_cents"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	SubtotalCents  int64  `gorm:"not null" json:"subtotal_cents"`
}
