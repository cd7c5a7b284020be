package migrations

import (
	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_one_time_codes_table", &CreateOneTimeCodesTable{})
	migration.Register("20260301000002_create_login_attempts_table", &CreateLoginAttemptsTable{})
	migration.Register("20260301000003_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000004_create_carts_tables", &CreateCartsTables{})
	migration.Register("20260301000005_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260301000006_create_payments_table", &CreatePaymentsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateOneTimeCodesTable struct{}

func (m *CreateOneTimeCodesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OneTimeCode{})
}

func (m *CreateOneTimeCodesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("one_time_codes")
}

type CreateLoginAttemptsTable struct{}

func (m *CreateLoginAttemptsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.LoginAttempt{})
}

func (m *CreateLoginAttemptsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("login_attempts")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateCartsTables struct{}

func (m *CreateCartsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items", "carts")
}

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

type CreatePaymentsTable struct{}

func (m *CreatePaymentsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Payment{})
}

func (m *CreatePaymentsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("payments")
}
