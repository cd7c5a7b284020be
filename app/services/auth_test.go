package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"github.com/ruberanziza1/alx-project-nexus/pkg/auth"
)

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()

	tokens := auth.NewManager(auth.Config{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, auth.NewMemoryRefreshStore())

	otp := NewOTPStore(db, testOTPConfig())
	limiter := NewLimiter(db, testRateLimitConfig())
	return NewAuthService(db, otp, limiter, tokens)
}

func latestCode(t *testing.T, db *gorm.DB, userID uint, purpose models.Purpose) string {
	t.Helper()

	var otc models.OneTimeCode
	require.NoError(t, db.
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Order("id desc").
		First(&otc).Error)
	return otc.Code
}

func TestRegisterVerifyLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	user, err := svc.Register(RegisterInput{
		Email:     "new@test.local",
		Password:  "s3cret-pass",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.False(t, user.EmailVerified)

	// Registration creates the cart up front.
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&cart).Error)

	// Unverified accounts cannot log in, and the message does not say why.
	_, _, err = svc.Login("new@test.local", "s3cret-pass", "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.From(err).Kind)
	assert.Equal(t, loginFailedMessage, apperr.From(err).Message)

	code := latestCode(t, db, user.ID, models.PurposeEmailVerify)
	require.NoError(t, svc.VerifyEmail("new@test.local", code))

	pair, logged, err := svc.Login("new@test.local", "s3cret-pass", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotNil(t, logged.LastLoginAt)
}

func TestRegisterLockoutResendVerifyLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	user, err := svc.Register(RegisterInput{Email: "locked@test.local", Password: "s3cret-pass", FirstName: "A"})
	require.NoError(t, err)
	code := latestCode(t, db, user.ID, models.PurposeEmailVerify)

	for i := 0; i < 3; i++ {
		err := svc.VerifyEmail(user.Email, "000000")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)
	}

	// The third miss burned the code; even the right one is refused now.
	err = svc.VerifyEmail(user.Email, code)
	require.ErrorIs(t, err, apperr.ErrAttemptsExceeded)

	require.NoError(t, svc.ResendOTP(user.Email, models.PurposeEmailVerify))
	fresh := latestCode(t, db, user.ID, models.PurposeEmailVerify)
	require.NotEqual(t, code, fresh)
	require.NoError(t, svc.VerifyEmail(user.Email, fresh))

	_, _, err = svc.Login(user.Email, "s3cret-pass", "10.0.0.1")
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	in := RegisterInput{Email: "dup@test.local", Password: "s3cret-pass", FirstName: "A"}
	_, err := svc.Register(in)
	require.NoError(t, err)

	_, err = svc.Register(in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.From(err).Kind)
}

func TestLoginWrongPasswordUniformMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	_, err := svc.Register(RegisterInput{Email: "u@test.local", Password: "s3cret-pass", FirstName: "A"})
	require.NoError(t, err)

	_, _, wrongPass := svc.Login("u@test.local", "not-the-password", "10.0.0.1")
	_, _, unknown := svc.Login("ghost@test.local", "whatever", "10.0.0.1")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, apperr.From(wrongPass).Message, apperr.From(unknown).Message)
}

func TestLoginRateLimited(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login("target@test.local", "bad", "10.0.0.7")
		require.Error(t, err)
	}

	_, _, err := svc.Login("target@test.local", "bad", "10.0.0.7")
	require.Error(t, err)
	assert.Equal(t, apperr.KindRateLimited, apperr.From(err).Kind)
}

func TestLoginBlockedRetriesDoNotExtendWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	user, err := svc.Register(RegisterInput{Email: "patient@test.local", Password: "s3cret-pass", FirstName: "A"})
	require.NoError(t, err)
	code := latestCode(t, db, user.ID, models.PurposeEmailVerify)
	require.NoError(t, svc.VerifyEmail(user.Email, code))

	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(user.Email, "bad", "10.0.0.9")
		require.Error(t, err)
	}

	// Retries while blocked fail, even with the right password.
	for i := 0; i < 5; i++ {
		_, _, err := svc.Login(user.Email, "s3cret-pass", "10.0.0.9")
		require.Error(t, err)
		assert.Equal(t, apperr.KindRateLimited, apperr.From(err).Kind)
	}

	// Only the original failures are on record; blocked retries leave none.
	var failures int64
	require.NoError(t, db.Model(&models.LoginAttempt{}).Where("success = ?", false).Count(&failures).Error)
	assert.EqualValues(t, 5, failures)

	// Once the original failures age out, the block lifts.
	base := time.Now()
	svc.limiter.now = func() time.Time { return base.Add(16 * time.Minute) }
	_, _, err = svc.Login(user.Email, "s3cret-pass", "10.0.0.9")
	require.NoError(t, err)
}

func TestResendOTPUniformForUnknownAndVerified(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	verified := seedUser(t, db, "done@test.local", true)

	assert.NoError(t, svc.ResendOTP("ghost@test.local", models.PurposeEmailVerify))
	assert.NoError(t, svc.ResendOTP(verified.Email, models.PurposeEmailVerify))

	// Neither call issued anything.
	var count int64
	require.NoError(t, db.Model(&models.OneTimeCode{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResendOTPRateLimited(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	user := seedUser(t, db, "eager@test.local", false)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.ResendOTP(user.Email, models.PurposeEmailVerify))
	}

	err := svc.ResendOTP(user.Email, models.PurposeEmailVerify)
	require.Error(t, err)
	assert.Equal(t, apperr.KindRateLimited, apperr.From(err).Kind)
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	user, err := svc.Register(RegisterInput{Email: "pw@test.local", Password: "old-password", FirstName: "A"})
	require.NoError(t, err)
	code := latestCode(t, db, user.ID, models.PurposeEmailVerify)
	require.NoError(t, svc.VerifyEmail(user.Email, code))

	msg, err := svc.ForgotPassword(user.Email)
	require.NoError(t, err)
	assert.Equal(t, neutralResetMessage, msg)

	// The neutral message comes back for unknown accounts too.
	msg, err = svc.ForgotPassword("ghost@test.local")
	require.NoError(t, err)
	assert.Equal(t, neutralResetMessage, msg)

	reset := latestCode(t, db, user.ID, models.PurposePasswordReset)
	require.NoError(t, svc.ResetPassword(user.Email, reset, "new-password"))

	_, _, err = svc.Login(user.Email, "old-password", "10.0.0.1")
	require.Error(t, err)
	_, _, err = svc.Login(user.Email, "new-password", "10.0.0.1")
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	user, err := svc.Register(RegisterInput{Email: "chg@test.local", Password: "old-password", FirstName: "A"})
	require.NoError(t, err)
	code := latestCode(t, db, user.ID, models.PurposeEmailVerify)
	require.NoError(t, svc.VerifyEmail(user.Email, code))

	err = svc.ChangePassword(user.ID, "wrong-current", "new-password")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.From(err).Kind)

	require.NoError(t, svc.ChangePassword(user.ID, "old-password", "new-password"))

	_, _, err = svc.Login(user.Email, "new-password", "10.0.0.1")
	require.NoError(t, err)
}

func TestRefreshRotation(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	user, err := svc.Register(RegisterInput{Email: "rot@test.local", Password: "s3cret-pass", FirstName: "A"})
	require.NoError(t, err)
	code := latestCode(t, db, user.ID, models.PurposeEmailVerify)
	require.NoError(t, svc.VerifyEmail(user.Email, code))

	pair, _, err := svc.Login(user.Email, "s3cret-pass", "10.0.0.1")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	// The old refresh token died with the rotation.
	_, err = svc.Refresh(pair.Refresh)
	require.Error(t, err)
}
