package models

import "gorm.io/gorm"

// LoginAttempt is an append-only audit row written for every login attempt,
// successful or not. The rate limiter counts recent failures over it.
type LoginAttempt struct {
	gorm.Model
	Email     string `gorm:"size:255;not null;index" json:"email"`
	IPAddress string `gorm:"size:45;index" json:"ip_address"`
	Success   bool   `gorm:"not null;default:false" json:"success"`
	// Reason records why the attempt failed: "bad_credentials",
	// "unverified", "inactive", "rate_limited". Empty on success.
	Reason string `gorm:"size:50" json:"reason"`
}
