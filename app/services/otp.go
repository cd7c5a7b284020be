package services

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"github.com/ruberanziza1/alx-project-nexus/pkg/metrics"
	"gorm.io/gorm"
)

// OTPStore issues and verifies one-time codes.
type OTPStore struct {
	db  *gorm.DB
	cfg config.OTP
	now func() time.Time
}

// NewOTPStore creates an OTPStore with the given settings.
func NewOTPStore(db *gorm.DB, cfg config.OTP) *OTPStore {
	return &OTPStore{db: db, cfg: cfg, now: time.Now}
}

// Create issues a fresh code for (user, purpose), superseding any unused
// codes for the same pair in the same transaction.
func (s *OTPStore) Create(userID uint, purpose models.Purpose) (*models.OneTimeCode, error) {
	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("otp: generate: %w", err)
	}

	otc := &models.OneTimeCode{
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(s.cfg.TTL),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OneTimeCode{}).
			Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
			Update("used", true).Error; err != nil {
			return err
		}
		return tx.Create(otc).Error
	})
	if err != nil {
		return nil, fmt.Errorf("otp: create: %w", err)
	}

	metrics.OTPIssued.WithLabelValues(string(purpose)).Inc()
	return otc, nil
}

// Verify checks code against the most recent unused code for (user,
// purpose). The attempt counter is incremented before the comparison and
// the increment survives a mismatch, so three wrong guesses lock the code
// even if the fourth guess is correct. On success the code is marked used
// and, for email verification, the user's verified flags flip in the same
// transaction.
func (s *OTPStore) Verify(userID uint, purpose models.Purpose, code string) error {
	var otc models.OneTimeCode
	err := s.db.
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Order("id desc").
		First(&otc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.OTPVerifications.WithLabelValues("no_valid_code").Inc()
		return apperr.ErrNoValidCode
	}
	if err != nil {
		return fmt.Errorf("otp: lookup: %w", err)
	}
	if otc.ExpiredAt(s.now()) {
		metrics.OTPVerifications.WithLabelValues("no_valid_code").Inc()
		return apperr.ErrNoValidCode
	}

	if otc.Attempts >= s.cfg.MaxAttempts {
		metrics.OTPVerifications.WithLabelValues("attempts_exceeded").Inc()
		return apperr.ErrAttemptsExceeded
	}

	if err := s.db.Model(&models.OneTimeCode{}).
		Where("id = ?", otc.ID).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
		return fmt.Errorf("otp: count attempt: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(otc.Code), []byte(code)) != 1 {
		metrics.OTPVerifications.WithLabelValues("mismatch").Inc()
		return apperr.New(apperr.KindValidation, "invalid verification code")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OneTimeCode{}).
			Where("id = ?", otc.ID).
			Update("used", true).Error; err != nil {
			return err
		}
		if purpose == models.PurposeEmailVerify {
			return tx.Model(&models.User{}).
				Where("id = ?", userID).
				Updates(map[string]interface{}{
					"email_verified": true,
					"can_login":      true,
				}).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("otp: consume: %w", err)
	}

	metrics.OTPVerifications.WithLabelValues("ok").Inc()
	return nil
}

// PurgeStale deletes used or expired codes created before cutoff.
func (s *OTPStore) PurgeStale(cutoff time.Time) (int64, error) {
	res := s.db.Unscoped().
		Where("created_at < ? AND (used = ? OR expires_at < ?)", cutoff, true, s.now()).
		Delete(&models.OneTimeCode{})
	return res.RowsAffected, res.Error
}

func (s *OTPStore) generate() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < s.cfg.Length; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", s.cfg.Length, n), nil
}
