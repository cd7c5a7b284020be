package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
)

func TestOTPCreateSupersedesPrevious(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "otp@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	first, err := store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)
	second, err := store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)

	// Only the latest code is live.
	var unused int64
	require.NoError(t, db.Model(&models.OneTimeCode{}).
		Where("user_id = ? AND used = ?", user.ID, false).
		Count(&unused).Error)
	assert.EqualValues(t, 1, unused)

	if first.Code != second.Code {
		err = store.Verify(user.ID, models.PurposeEmailVerify, first.Code)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)
	}

	require.NoError(t, store.Verify(user.ID, models.PurposeEmailVerify, second.Code))
}

func TestOTPVerifyFlipsUserFlags(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "flags@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	code, err := store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)

	require.NoError(t, store.Verify(user.ID, models.PurposeEmailVerify, code.Code))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.True(t, got.EmailVerified)
	assert.True(t, got.CanLogin)

	// A consumed code cannot be replayed.
	err = store.Verify(user.ID, models.PurposeEmailVerify, code.Code)
	assert.ErrorIs(t, err, apperr.ErrNoValidCode)
}

func TestOTPVerifyResetDoesNotTouchFlags(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "reset@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	code, err := store.Create(user.ID, models.PurposePasswordReset)
	require.NoError(t, err)
	require.NoError(t, store.Verify(user.ID, models.PurposePasswordReset, code.Code))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.False(t, got.EmailVerified)
	assert.False(t, got.CanLogin)
}

func TestOTPVerifyExpired(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "expired@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store.now = now

	code, err := store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)

	advance(6 * time.Minute)
	err = store.Verify(user.ID, models.PurposeEmailVerify, code.Code)
	assert.ErrorIs(t, err, apperr.ErrNoValidCode)
}

func TestOTPAttemptLockout(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "lockout@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	code, err := store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)

	wrong := "000000"
	if code.Code == wrong {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		err := store.Verify(user.ID, models.PurposeEmailVerify, wrong)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)
	}

	// The correct code is burned after three wrong guesses.
	err = store.Verify(user.ID, models.PurposeEmailVerify, code.Code)
	assert.ErrorIs(t, err, apperr.ErrAttemptsExceeded)
}

func TestOTPVerifyWithoutCode(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "nocode@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	err := store.Verify(user.ID, models.PurposeEmailVerify, "123456")
	assert.ErrorIs(t, err, apperr.ErrNoValidCode)
}

func TestOTPPurgeStale(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "purge@test.local", false)
	store := NewOTPStore(db, testOTPConfig())

	_, err := store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)
	_, err = store.Create(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)

	// The superseded code is used, so a future cutoff removes it.
	removed, err := store.PurgeStale(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
