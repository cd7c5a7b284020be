// Package database owns the GORM connection shared by the application.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ruberanziza1/alx-project-nexus/config"
)

var DB *gorm.DB

// Connect opens the configured database and sizes the connection pool.
// Errors are returned rather than fatal-logged so boot code can decide
// how to fail.
func Connect() error {
	dialector, err := openDialector(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		// Query logging goes through pkg/logger, not GORM's own writer.
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.GetInt("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(config.GetInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database: unsupported DB_DRIVER %q", driver)
	}
}
