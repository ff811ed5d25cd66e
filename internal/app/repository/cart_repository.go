package repository

import (
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindByUserID(userID uint) (*model.Cart, error)
	FindByUserIDForUpdate(userID uint) (*model.Cart, error)
	Create(cart *model.Cart) error
	Delete(cartID uint) error

	FindDetailByID(id uint) (*model.CartDetail, error)
	FindDetailByProduct(cartID, productID uint) (*model.CartDetail, error)
	FindDetailsInCart(cartID uint, ids []uint) ([]model.CartDetail, error)
	CreateDetail(detail *model.CartDetail) error
	UpdateDetail(detail *model.CartDetail) error
	DeleteDetail(id uint) error
	DetachDetails(cartID uint, ids []uint) (int64, error)
	AttachDetailsToOrder(ids []uint, orderID uint) error

	WithTx(tx *gorm.DB) CartRepository
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

func preloadCart(db *gorm.DB) *gorm.DB {
	return db.Preload("CartDetails", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_details.id ASC")
	}).Preload("CartDetails.Product.Discount")
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	if err := preloadCart(r.db).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		logNotFoundOrError("Failed to find cart by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"count":   len(cart.CartDetails),
	})
	return &cart, nil
}

// FindByUserIDForUpdate row-locks the cart on postgres; sqlite ignores the clause.
func (r *cartRepository) FindByUserIDForUpdate(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := preloadCart(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		logNotFoundOrError("Failed to lock cart by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

// Delete removes the cart's line items and then the cart row.
func (r *cartRepository) Delete(cartID uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartDetail{}).Error; err != nil {
		logger.Error("Failed to delete cart details from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	if err := r.db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Debug("Cart deleted from database", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}

func (r *cartRepository) FindDetailByID(id uint) (*model.CartDetail, error) {
	var detail model.CartDetail
	if err := r.db.Preload("Product.Discount").First(&detail, id).Error; err != nil {
		logNotFoundOrError("Failed to find cart detail by ID in database", err, map[string]interface{}{
			"cart_detail_id": id,
		})
		return nil, err
	}
	return &detail, nil
}

func (r *cartRepository) FindDetailByProduct(cartID, productID uint) (*model.CartDetail, error) {
	var detail model.CartDetail
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&detail).Error
	if err != nil {
		logNotFoundOrError("Failed to find cart detail by product in database", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}
	return &detail, nil
}

// FindDetailsInCart returns the subset of ids that belong to the cart.
func (r *cartRepository) FindDetailsInCart(cartID uint, ids []uint) ([]model.CartDetail, error) {
	var details []model.CartDetail
	if len(ids) == 0 {
		return details, nil
	}

	err := r.db.Preload("Product.Discount").
		Where("cart_id = ? AND id IN ?", cartID, ids).
		Order("id ASC").
		Find(&details).Error
	if err != nil {
		logger.Error("Failed to find cart details in cart", err, map[string]interface{}{
			"cart_id": cartID,
			"ids":     ids,
		})
		return nil, err
	}

	logger.Debug("Cart details resolved in database", map[string]interface{}{
		"cart_id":   cartID,
		"requested": len(ids),
		"resolved":  len(details),
	})
	return details, nil
}

func (r *cartRepository) CreateDetail(detail *model.CartDetail) error {
	logger.Debug("Creating cart detail in database", map[string]interface{}{
		"cart_id":    detail.CartID,
		"product_id": detail.ProductID,
		"quantity":   detail.Quantity,
	})

	if err := r.db.Omit(clause.Associations).Create(detail).Error; err != nil {
		logger.Error("Failed to create cart detail in database", err, map[string]interface{}{
			"cart_id":    detail.CartID,
			"product_id": detail.ProductID,
		})
		return err
	}

	logger.Debug("Cart detail created in database", map[string]interface{}{
		"cart_detail_id": detail.ID,
	})
	return nil
}

func (r *cartRepository) UpdateDetail(detail *model.CartDetail) error {
	logger.Debug("Updating cart detail in database", map[string]interface{}{
		"cart_detail_id": detail.ID,
		"quantity":       detail.Quantity,
		"item_price":     detail.ItemPrice.String(),
	})

	err := r.db.Model(&model.CartDetail{}).
		Where("id = ?", detail.ID).
		Updates(map[string]interface{}{
			"quantity":   detail.Quantity,
			"item_price": detail.ItemPrice,
		}).Error
	if err != nil {
		logger.Error("Failed to update cart detail in database", err, map[string]interface{}{
			"cart_detail_id": detail.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteDetail(id uint) error {
	logger.Debug("Deleting cart detail from database", map[string]interface{}{
		"cart_detail_id": id,
	})

	if err := r.db.Delete(&model.CartDetail{}, id).Error; err != nil {
		logger.Error("Failed to delete cart detail from database", err, map[string]interface{}{
			"cart_detail_id": id,
		})
		return err
	}
	return nil
}

// DetachDetails removes the line items from the cart without deleting them.
func (r *cartRepository) DetachDetails(cartID uint, ids []uint) (int64, error) {
	result := r.db.Model(&model.CartDetail{}).
		Where("cart_id = ? AND id IN ?", cartID, ids).
		Update("cart_id", nil)
	if result.Error != nil {
		logger.Error("Failed to detach cart details", result.Error, map[string]interface{}{
			"cart_id": cartID,
			"ids":     ids,
		})
		return 0, result.Error
	}

	logger.Debug("Cart details detached", map[string]interface{}{
		"cart_id":  cartID,
		"detached": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *cartRepository) AttachDetailsToOrder(ids []uint, orderID uint) error {
	err := r.db.Model(&model.CartDetail{}).
		Where("id IN ? AND cart_id IS NULL", ids).
		Update("order_id", orderID).Error
	if err != nil {
		logger.Error("Failed to attach cart details to order", err, map[string]interface{}{
			"order_id": orderID,
			"ids":      ids,
		})
		return err
	}
	return nil
}
