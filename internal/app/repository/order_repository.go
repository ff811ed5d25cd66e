package repository

import (
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	UpdateTotalPrice(orderID uint, total decimal.Decimal) error
	UpdateStatus(orderID, statusID uint) error
	MarkPaid(orderID uint, txnRef string, paidAt time.Time) (bool, error)
	CancelStaleUnpaid(paymentMethodID, pendingStatusID, cancelledStatusID uint, placedBefore time.Time) (int64, error)

	FindStatusByName(name string) (*model.OrderStatus, error)
	FindPaymentMethodByID(id uint) (*model.PaymentMethod, error)
	FindPaymentMethodByCode(code string) (*model.PaymentMethod, error)

	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.
		Preload("PaymentMethod").
		Preload("OrderStatus").
		Preload("Voucher").
		Preload("OrderDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_details.id ASC")
		}).
		Preload("OrderDetails.Product.Discount")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":           order.UserID,
		"payment_method_id": order.PaymentMethodID,
	})

	if err := r.db.Omit(clause.Associations).Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logNotFoundOrError("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.preloadOrder().
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) UpdateTotalPrice(orderID uint, total decimal.Decimal) error {
	err := r.db.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total_price", total).Error
	if err != nil {
		logger.Error("Failed to update order total price", err, map[string]interface{}{
			"order_id":    orderID,
			"total_price": total.String(),
		})
		return err
	}
	return nil
}

func (r *orderRepository) UpdateStatus(orderID, statusID uint) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id":  orderID,
		"status_id": statusID,
	})

	err := r.db.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("order_status_id", statusID).Error
	if err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id":  orderID,
			"status_id": statusID,
		})
		return err
	}
	return nil
}

// MarkPaid flips an unpaid, not cancelled order to paid. It reports false
// when the order was already paid, leaving paid_date and the txn ref from the
// first call, or when it has been cancelled.
func (r *orderRepository) MarkPaid(orderID uint, txnRef string, paidAt time.Time) (bool, error) {
	cancelled := r.db.Model(&model.OrderStatus{}).
		Select("id").
		Where("name = ?", model.OrderStatusCancelled)
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, false).
		Where("order_status_id NOT IN (?)", cancelled).
		Updates(map[string]interface{}{
			"payment_status":  true,
			"paid_date":       paidAt,
			"payment_txn_ref": txnRef,
		})
	if result.Error != nil {
		logger.Error("Failed to mark order as paid", result.Error, map[string]interface{}{
			"order_id": orderID,
			"txn_ref":  txnRef,
		})
		return false, result.Error
	}

	logger.Debug("Mark paid executed", map[string]interface{}{
		"order_id": orderID,
		"applied":  result.RowsAffected == 1,
	})
	return result.RowsAffected == 1, nil
}

// CancelStaleUnpaid moves pending, unpaid orders of one payment method placed
// before the cutoff to the cancelled status.
func (r *orderRepository) CancelStaleUnpaid(paymentMethodID, pendingStatusID, cancelledStatusID uint, placedBefore time.Time) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("payment_method_id = ? AND order_status_id = ? AND payment_status = ? AND order_date < ?",
			paymentMethodID, pendingStatusID, false, placedBefore).
		Update("order_status_id", cancelledStatusID)
	if result.Error != nil {
		logger.Error("Failed to cancel stale unpaid orders", result.Error, map[string]interface{}{
			"payment_method_id": paymentMethodID,
			"placed_before":     placedBefore,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *orderRepository) FindStatusByName(name string) (*model.OrderStatus, error) {
	var status model.OrderStatus
	if err := r.db.Where("name = ?", name).First(&status).Error; err != nil {
		logNotFoundOrError("Failed to find order status by name", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	return &status, nil
}

func (r *orderRepository) FindPaymentMethodByID(id uint) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	if err := r.db.First(&method, id).Error; err != nil {
		logNotFoundOrError("Failed to find payment method by ID", err, map[string]interface{}{
			"payment_method_id": id,
		})
		return nil, err
	}
	return &method, nil
}

func (r *orderRepository) FindPaymentMethodByCode(code string) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	if err := r.db.Where("code = ?", code).First(&method).Error; err != nil {
		logNotFoundOrError("Failed to find payment method by code", err, map[string]interface{}{
			"code": code,
		})
		return nil, err
	}
	return &method, nil
}
