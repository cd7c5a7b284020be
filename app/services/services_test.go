package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/config"
)

// newTestDB opens a fresh in-memory database named after the test, so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.OneTimeCode{},
		&models.LoginAttempt{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, verified bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:         email,
		Password:      "$2a$10$notarealhashnotarealhashnotarealhashnotarealhash12345",
		FirstName:     "Test",
		LastName:      "User",
		Role:          models.RoleCustomer,
		EmailVerified: verified,
		CanLogin:      verified,
		IsActive:      true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceCents int64, stock int) *models.Product {
	t.Helper()

	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	product := &models.Product{
		Name:          name,
		Slug:          slug,
		SKU:           "PRD-" + strings.ToUpper(slug),
		PriceCents:    priceCents,
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func testOTPConfig() config.OTP {
	return config.OTP{TTL: 5 * time.Minute, Length: 6, MaxAttempts: 3}
}

func testRateLimitConfig() config.RateLimit {
	return config.RateLimit{
		LoginWindow:  15 * time.Minute,
		LoginMax:     5,
		ResendWindow: time.Hour,
		ResendMax:    3,
	}
}

// fixedClock returns a now func pinned to base, advanceable by tests.
func fixedClock(base time.Time) (func() time.Time, func(time.Duration)) {
	current := base
	return func() time.Time { return current },
		func(d time.Duration) { current = current.Add(d) }
}
