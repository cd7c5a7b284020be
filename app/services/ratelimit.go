package services

import (
	"fmt"
	"time"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"gorm.io/gorm"
)

// Limiter answers the business-level throttling questions. It reads what
// other code has already recorded (login attempts, issued codes); the
// fixed-window IP limiter in pkg/middleware is a separate, coarser layer.
type Limiter struct {
	db  *gorm.DB
	cfg config.RateLimit
	now func() time.Time
}

// NewLimiter creates a Limiter with the given thresholds.
func NewLimiter(db *gorm.DB, cfg config.RateLimit) *Limiter {
	return &Limiter{db: db, cfg: cfg, now: time.Now}
}

// LoginExceeded reports whether either the email or the IP has too many
// failed attempts inside the trailing window. Either side tripping is
// enough to block.
func (l *Limiter) LoginExceeded(email, ip string) (bool, error) {
	since := l.now().Add(-l.cfg.LoginWindow)

	var byEmail int64
	if err := l.db.Model(&models.LoginAttempt{}).
		Where("email = ? AND success = ? AND created_at > ?", email, false, since).
		Count(&byEmail).Error; err != nil {
		return false, fmt.Errorf("ratelimit: count by email: %w", err)
	}
	if byEmail >= int64(l.cfg.LoginMax) {
		return true, nil
	}

	if ip == "" {
		return false, nil
	}

	var byIP int64
	if err := l.db.Model(&models.LoginAttempt{}).
		Where("ip_address = ? AND success = ? AND created_at > ?", ip, false, since).
		Count(&byIP).Error; err != nil {
		return false, fmt.Errorf("ratelimit: count by ip: %w", err)
	}
	return byIP >= int64(l.cfg.LoginMax), nil
}

// RecordLogin appends an audit row for a login attempt.
func (l *Limiter) RecordLogin(email, ip string, success bool, reason string) error {
	attempt := models.LoginAttempt{
		Email:     email,
		IPAddress: ip,
		Success:   success,
		Reason:    reason,
	}
	return l.db.Create(&attempt).Error
}

// ResendExceeded reports whether too many codes were issued for (user,
// purpose) inside the trailing window. Issuing the code is the qualifying
// event, so callers check this before OTPStore.Create.
func (l *Limiter) ResendExceeded(userID uint, purpose models.Purpose) (bool, error) {
	since := l.now().Add(-l.cfg.ResendWindow)

	var count int64
	if err := l.db.Model(&models.OneTimeCode{}).
		Where("user_id = ? AND purpose = ? AND created_at > ?", userID, purpose, since).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("ratelimit: count codes: %w", err)
	}
	return count >= int64(l.cfg.ResendMax), nil
}

// PurgeAttempts deletes login attempts created before cutoff.
func (l *Limiter) PurgeAttempts(cutoff time.Time) (int64, error) {
	res := l.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.LoginAttempt{})
	return res.RowsAffected, res.Error
}
