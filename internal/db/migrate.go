package db

import (
	"fmt"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Discount{},
		&model.Product{},
		&model.Cart{},
		&model.OrderStatus{},
		&model.PaymentMethod{},
		&model.Voucher{},
		&model.Order{},
		&model.CartDetail{},
		&model.UserVoucher{},
	}
}

// Migrate runs database migrations against the global connection
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedReferenceData(DB); err != nil {
		logger.Error("Failed to seed reference data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models()),
	})
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}

// SeedReferenceData inserts the order statuses and payment methods the
// workflow looks up by name. Existing rows are left untouched.
func SeedReferenceData(db *gorm.DB) error {
	statuses := []model.OrderStatus{
		{Name: model.OrderStatusPending},
		{Name: model.OrderStatusConfirmed},
		{Name: model.OrderStatusShipping},
		{Name: model.OrderStatusDelivered},
		{Name: model.OrderStatusCancelled},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&statuses).Error; err != nil {
		return fmt.Errorf("seed order statuses: %w", err)
	}

	methods := []model.PaymentMethod{
		{Name: "VNPay", Code: model.PaymentMethodOnline},
		{Name: "Cash on delivery", Code: model.PaymentMethodCOD},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&methods).Error; err != nil {
		return fmt.Errorf("seed payment methods: %w", err)
	}

	logger.Debug("Reference data seeded", map[string]interface{}{
		"order_statuses":  len(statuses),
		"payment_methods": len(methods),
	})
	return nil
}
