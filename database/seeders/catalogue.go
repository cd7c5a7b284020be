package seeders

import (
	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"github.com/ruberanziza1/alx-project-nexus/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
	Register("products", SeedProducts)
}

// SeedAdmin creates the initial admin account, already verified so it can
// log in immediately. Idempotent.
func SeedAdmin(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@nexus.shop")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	admin := models.User{
		Email:         email,
		Password:      hash,
		FirstName:     "Admin",
		Role:          models.RoleAdmin,
		EmailVerified: true,
		CanLogin:      true,
		IsActive:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	return db.Create(&models.Cart{UserID: admin.ID}).Error
}

// SeedProducts inserts a small starter catalogue. Idempotent.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Wireless Headphones", Slug: "wireless-headphones", SKU: "PRD-A1B2C3D4",
			Category: "electronics", PriceCents: 7999, ComparePriceCents: 9999, StockQuantity: 120, IsActive: true},
		{Name: "Mechanical Keyboard", Slug: "mechanical-keyboard", SKU: "PRD-E5F6A7B8",
			Category: "electronics", PriceCents: 12900, StockQuantity: 45, IsActive: true},
		{Name: "Canvas Backpack", Slug: "canvas-backpack", SKU: "PRD-C9D0E1F2",
			Category: "accessories", PriceCents: 5450, ComparePriceCents: 6900, StockQuantity: 80, IsActive: true},
		{Name: "Stainless Water Bottle", Slug: "stainless-water-bottle", SKU: "PRD-13579BDF",
			Category: "accessories", PriceCents: 2199, StockQuantity: 200, IsActive: true},
	}
	return db.Create(&products).Error
}
