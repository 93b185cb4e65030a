package database

import (
	"fmt"

	"procurement-service/internal/model"
	"procurement-service/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the postgres connection for the service-local tables (users
// and the approval audit trail) and runs their migrations. Workflow records
// live in the remote sheets, not here.
func InitDB(cfg *config.Config) error {
	logLevel := logger.Error
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := conn.AutoMigrate(&model.User{}, &model.ApprovalAudit{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db = conn
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB overrides the database instance, used by tests
func SetDB(d *gorm.DB) {
	db = d
}
