package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
)

func TestLoginExceededByEmail(t *testing.T) {
	db := newTestDB(t)
	limiter := NewLimiter(db, testRateLimitConfig())

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordLogin("victim@test.local", "10.0.0.1", false, "bad_credentials"))
	}

	exceeded, err := limiter.LoginExceeded("victim@test.local", "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, exceeded, "email over threshold blocks regardless of IP")

	exceeded, err = limiter.LoginExceeded("other@test.local", "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestLoginExceededByIP(t *testing.T) {
	db := newTestDB(t)
	limiter := NewLimiter(db, testRateLimitConfig())

	// Five failures from one address across different emails.
	emails := []string{"a@test.local", "b@test.local", "c@test.local", "d@test.local", "e@test.local"}
	for _, email := range emails {
		require.NoError(t, limiter.RecordLogin(email, "10.0.0.2", false, "bad_credentials"))
	}

	exceeded, err := limiter.LoginExceeded("fresh@test.local", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, exceeded, "IP over threshold blocks a fresh email")
}

func TestLoginExceededIgnoresSuccessesAndOldAttempts(t *testing.T) {
	db := newTestDB(t)
	limiter := NewLimiter(db, testRateLimitConfig())

	for i := 0; i < 4; i++ {
		require.NoError(t, limiter.RecordLogin("edge@test.local", "10.0.0.3", false, "bad_credentials"))
	}
	require.NoError(t, limiter.RecordLogin("edge@test.local", "10.0.0.3", true, ""))

	exceeded, err := limiter.LoginExceeded("edge@test.local", "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, exceeded, "successes do not count toward the limit")

	// Push past the threshold, then slide the window forward.
	require.NoError(t, limiter.RecordLogin("edge@test.local", "10.0.0.3", false, "bad_credentials"))
	exceeded, err = limiter.LoginExceeded("edge@test.local", "10.0.0.3")
	require.NoError(t, err)
	assert.True(t, exceeded)

	limiter.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	exceeded, err = limiter.LoginExceeded("edge@test.local", "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, exceeded, "attempts age out of the window")
}

func TestResendExceeded(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "resend@test.local", false)
	limiter := NewLimiter(db, testRateLimitConfig())
	store := NewOTPStore(db, testOTPConfig())

	for i := 0; i < 3; i++ {
		exceeded, err := limiter.ResendExceeded(user.ID, models.PurposeEmailVerify)
		require.NoError(t, err)
		require.False(t, exceeded)
		_, err = store.Create(user.ID, models.PurposeEmailVerify)
		require.NoError(t, err)
	}

	exceeded, err := limiter.ResendExceeded(user.ID, models.PurposeEmailVerify)
	require.NoError(t, err)
	assert.True(t, exceeded)

	// A different purpose has its own budget.
	exceeded, err = limiter.ResendExceeded(user.ID, models.PurposePasswordReset)
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestPurgeAttempts(t *testing.T) {
	db := newTestDB(t)
	limiter := NewLimiter(db, testRateLimitConfig())

	require.NoError(t, limiter.RecordLogin("old@test.local", "10.0.0.4", false, "bad_credentials"))

	removed, err := limiter.PurgeAttempts(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}
