package db

import (
	"fmt"
	"log"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated, seeded in-memory SQLite database.
// The pool is pinned to one connection because every ":memory:" connection
// is a separate database.
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}
	if err := SeedReferenceData(db); err != nil {
		return nil, fmt.Errorf("failed to seed test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB closes the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all rows except the seeded reference data
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		(model.UserVoucher{}).TableName(),
		(model.CartDetail{}).TableName(),
		(model.Order{}).TableName(),
		(model.Voucher{}).TableName(),
		(model.Cart{}).TableName(),
		(model.Product{}).TableName(),
		(model.Discount{}).TableName(),
		(model.User{}).TableName(),
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
