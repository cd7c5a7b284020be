package models

import (
	"time"

	"gorm.io/gorm"
)

// Purpose distinguishes what a one-time code unlocks.
type Purpose string

const (
	PurposeEmailVerify   Purpose = "email_verify"
	PurposePasswordReset Purpose = "password_reset"
)

// OneTimeCode is a short-lived numeric code mailed to a user. Issuing a new
// code supersedes any unused codes for the same (user, purpose).
type OneTimeCode struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index:idx_otp_user_purpose" json:"user_id"`
	Purpose   Purpose   `gorm:"size:50;not null;index:idx_otp_user_purpose" json:"purpose"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// ExpiredAt reports whether the code is past its TTL at the given instant.
func (c *OneTimeCode) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
