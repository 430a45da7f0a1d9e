// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Shuttle{},
		&models.Application{},
		&models.NDARequest{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Shuttle indexes
		"CREATE INDEX IF NOT EXISTS idx_mpw_shuttles_tape_out ON mpw_shuttles(tape_out_date)",
		"CREATE INDEX IF NOT EXISTS idx_mpw_shuttles_process ON mpw_shuttles(process)",

		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_mpw_applications_user ON mpw_applications(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_mpw_applications_shuttle ON mpw_applications(shuttle_id)",
		"CREATE INDEX IF NOT EXISTS idx_mpw_applications_status ON mpw_applications(status)",
		"CREATE INDEX IF NOT EXISTS idx_mpw_applications_user_shuttle ON mpw_applications(user_id, shuttle_id)",
		"CREATE INDEX IF NOT EXISTS idx_mpw_applications_created_at ON mpw_applications(created_at DESC)",

		// NDA indexes
		"CREATE INDEX IF NOT EXISTS idx_nda_requests_user_created ON nda_requests(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_nda_requests_status ON nda_requests(status)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData provisions the default staff account so the admin
// console is reachable on a fresh install.
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var staffCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleStaff).Count(&staffCount)

	if staffCount == 0 {
		staff := &models.User{
			Email:   "admin@ynstek.com",
			Role:    models.UserRoleStaff,
			Company: "YNS",
			ProfileData: models.JSONB{
				"display_name": "YNS Operations",
			},
		}

		if err := db.Create(staff).Error; err != nil {
			return fmt.Errorf("failed to create staff user: %w", err)
		}

		log.Println("Default staff user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}
