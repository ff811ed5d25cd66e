package repository

import (
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoucherRepository interface {
	Create(voucher *model.Voucher) error
	FindByID(id uint) (*model.Voucher, error)
	FindByCode(code string) (*model.Voucher, error)
	FindPublishing(now time.Time) ([]model.Voucher, error)
	IncrementCollected(voucherID uint) (bool, error)

	FindUserVoucher(userID, voucherID uint) (*model.UserVoucher, error)
	FindByUser(userID uint) ([]model.UserVoucher, error)
	CreateUserVoucher(uv *model.UserVoucher) error
	MarkUsed(userVoucherID, orderID uint, usedAt time.Time) (bool, error)

	WithTx(tx *gorm.DB) VoucherRepository
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) WithTx(tx *gorm.DB) VoucherRepository {
	return &voucherRepository{db: tx}
}

func (r *voucherRepository) Create(voucher *model.Voucher) error {
	logger.Debug("Creating voucher in database", map[string]interface{}{
		"code": voucher.Code,
		"type": voucher.Type,
	})

	if err := r.db.Create(voucher).Error; err != nil {
		logger.Error("Failed to create voucher in database", err, map[string]interface{}{
			"code": voucher.Code,
		})
		return err
	}
	return nil
}

func (r *voucherRepository) FindByID(id uint) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := r.db.First(&voucher, id).Error; err != nil {
		logNotFoundOrError("Failed to find voucher by ID in database", err, map[string]interface{}{
			"voucher_id": id,
		})
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) FindByCode(code string) (*model.Voucher, error) {
	var voucher model.Voucher
	if err := r.db.Where("code = ?", code).First(&voucher).Error; err != nil {
		logNotFoundOrError("Failed to find voucher by code in database", err, map[string]interface{}{
			"code": code,
		})
		return nil, err
	}
	return &voucher, nil
}

// FindPublishing lists public vouchers still collectable at now, most collected first.
func (r *voucherRepository) FindPublishing(now time.Time) ([]model.Voucher, error) {
	var vouchers []model.Voucher
	err := r.db.
		Where("type = ? AND expired_date > ? AND max_usage IS NOT NULL AND collected_count < max_usage",
			model.VoucherTypePublic, now).
		Order("collected_count DESC, id ASC").
		Find(&vouchers).Error
	if err != nil {
		logger.Error("Failed to find publishing vouchers", err)
		return nil, err
	}

	logger.Debug("Publishing vouchers found", map[string]interface{}{
		"count": len(vouchers),
	})
	return vouchers, nil
}

// IncrementCollected bumps collected_count only while a public voucher is
// still under its cap. It reports false when no row matched.
func (r *voucherRepository) IncrementCollected(voucherID uint) (bool, error) {
	result := r.db.Model(&model.Voucher{}).
		Where("id = ? AND (type = ? OR (max_usage IS NOT NULL AND collected_count < max_usage))",
			voucherID, model.VoucherTypePrivate).
		UpdateColumn("collected_count", gorm.Expr("collected_count + ?", 1))
	if result.Error != nil {
		logger.Error("Failed to increment voucher collected count", result.Error, map[string]interface{}{
			"voucher_id": voucherID,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *voucherRepository) FindUserVoucher(userID, voucherID uint) (*model.UserVoucher, error) {
	var uv model.UserVoucher
	err := r.db.Preload("Voucher").
		Where("user_id = ? AND voucher_id = ?", userID, voucherID).
		First(&uv).Error
	if err != nil {
		logNotFoundOrError("Failed to find user voucher in database", err, map[string]interface{}{
			"user_id":    userID,
			"voucher_id": voucherID,
		})
		return nil, err
	}
	return &uv, nil
}

func (r *voucherRepository) FindByUser(userID uint) ([]model.UserVoucher, error) {
	var collections []model.UserVoucher
	err := r.db.Preload("Voucher").
		Where("user_id = ?", userID).
		Order("collected_at DESC, id DESC").
		Find(&collections).Error
	if err != nil {
		logger.Error("Failed to find user vouchers in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return collections, nil
}

func (r *voucherRepository) CreateUserVoucher(uv *model.UserVoucher) error {
	if err := r.db.Omit(clause.Associations).Create(uv).Error; err != nil {
		// unique violations are expected under races; the service maps them
		logger.Debug("Failed to create user voucher in database", map[string]interface{}{
			"user_id":    uv.UserID,
			"voucher_id": uv.VoucherID,
			"error":      err.Error(),
		})
		return err
	}

	logger.Debug("User voucher created in database", map[string]interface{}{
		"user_voucher_id": uv.ID,
		"user_id":         uv.UserID,
		"voucher_id":      uv.VoucherID,
	})
	return nil
}

// MarkUsed stamps an unused collection with the order it was applied to.
func (r *voucherRepository) MarkUsed(userVoucherID, orderID uint, usedAt time.Time) (bool, error) {
	result := r.db.Model(&model.UserVoucher{}).
		Where("id = ? AND used_at IS NULL", userVoucherID).
		Updates(map[string]interface{}{
			"used_at":  usedAt,
			"order_id": orderID,
		})
	if result.Error != nil {
		logger.Error("Failed to mark user voucher as used", result.Error, map[string]interface{}{
			"user_voucher_id": userVoucherID,
			"order_id":        orderID,
		})
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
