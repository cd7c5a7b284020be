package models

import "gorm.io/gorm"

// PaymentStatus is the state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment is the one payment record an order can have. SessionID is the
// gateway checkout session identifier used to correlate webhook events.
type Payment struct {
	gorm.Model
	OrderID     uint          `gorm:"uniqueIndex;not null" json:"order_id"`
	SessionID   string        `gorm:"size:255;index" json:"session_id"`
	AmountCents int64         `gorm:"not null" json:"amount_cents"`
	Currency    string        `gorm:"size:8;not null;default:usd" json:"currency"`
	Status      PaymentStatus `gorm:"size:32;not null;default:pending" json:"status"`
}
