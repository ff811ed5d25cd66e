package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/metrics"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/payment/vnpay"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentURLBuilder produces the gateway redirect for an online order.
type PaymentURLBuilder interface {
	BuildPaymentURL(req vnpay.PaymentRequest) (string, error)
}

type PlaceOrderInput struct {
	LineItemIDs     []uint
	ShippingAddress string
	ShippingMethod  string
	ShippingFee     *decimal.Decimal
	PaymentMethodID uint
	VoucherID       *uint
	ClientIP        string
	Locale          string
}

// PlaceOrderResult carries the order for offline methods, or only the
// payment URL when the order must be paid online first.
type PlaceOrderResult struct {
	Order      *model.Order `json:"order,omitempty"`
	PaymentURL string       `json:"payment_url,omitempty"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*PlaceOrderResult, error)
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, statusName string) (*model.Order, error)
	CreatePaymentURL(ctx context.Context, userID, orderID uint, clientIP, locale string) (string, error)
	CancelStaleUnpaidOrders(ctx context.Context, olderThan time.Duration) (int64, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	voucherRepo repository.VoucherRepository
	locker      CartLocker
	payments    PaymentURLBuilder
	db          *gorm.DB
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	voucherRepo repository.VoucherRepository,
	locker CartLocker,
	payments PaymentURLBuilder,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		voucherRepo: voucherRepo,
		locker:      locker,
		payments:    payments,
		db:          db,
		now:         time.Now,
	}
}

func validatePlaceOrder(input PlaceOrderInput) error {
	switch {
	case len(input.LineItemIDs) == 0:
		return newInputError("at least one cart item must be selected")
	case strings.TrimSpace(input.ShippingAddress) == "":
		return newInputError("shipping address is required")
	case strings.TrimSpace(input.ShippingMethod) == "":
		return newInputError("shipping method is required")
	case input.ShippingFee == nil:
		return newInputError("shipping fee is required")
	case input.ShippingFee.IsNegative():
		return newInputError("shipping fee must not be negative")
	case input.PaymentMethodID == 0:
		return newInputError("payment method is required")
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// orderTotal is Σ itemPrice × (100 − discount%) / 100 + shippingFee at now,
// rounded to 2 places. Products without an active discount count as 0%.
func orderTotal(details []model.CartDetail, shippingFee decimal.Decimal, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range details {
		pct := details[i].Product.DiscountPercent(now)
		total = total.Add(model.ApplyPercentOff(details[i].ItemPrice, pct))
	}
	return total.Add(shippingFee).Round(2)
}

// PlaceOrder turns the selected cart items into an order. Everything from
// loading the cart to persisting the total runs in one transaction under
// the user's cart lock, so a failure leaves the cart untouched.
func (s *orderService) PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*PlaceOrderResult, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":           userID,
		"line_item_count":   len(input.LineItemIDs),
		"payment_method_id": input.PaymentMethodID,
	})

	if err := validatePlaceOrder(input); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	var (
		orderID uint
		method  *model.PaymentMethod
		total   decimal.Decimal
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		cart, err := cartRepo.FindByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return fmt.Errorf("load cart: %w", err)
		}

		details, err := cartRepo.FindDetailsInCart(cart.ID, uniqueIDs(input.LineItemIDs))
		if err != nil {
			return fmt.Errorf("resolve cart items: %w", err)
		}
		if len(details) == 0 {
			return ErrItemsNotInCart
		}
		ids := make([]uint, len(details))
		for i, d := range details {
			ids[i] = d.ID
		}

		if _, err := cartRepo.DetachDetails(cart.ID, ids); err != nil {
			return fmt.Errorf("detach cart items: %w", err)
		}

		method, err = orderRepo.FindPaymentMethodByID(input.PaymentMethodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidPaymentMethod
			}
			return fmt.Errorf("load payment method: %w", err)
		}
		pending, err := orderRepo.FindStatusByName(model.OrderStatusPending)
		if err != nil {
			return fmt.Errorf("load pending status: %w", err)
		}

		var redeem *model.UserVoucher
		if input.VoucherID != nil {
			if redeem, err = s.redeemableVoucher(tx, userID, *input.VoucherID, now); err != nil {
				return err
			}
		}

		order := &model.Order{
			UserID:          userID,
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			ShippingMethod:  strings.TrimSpace(input.ShippingMethod),
			ShippingFee:     *input.ShippingFee,
			PaymentMethodID: method.ID,
			VoucherID:       input.VoucherID,
			TotalPrice:      decimal.Zero,
			PaymentStatus:   false,
			OrderStatusID:   pending.ID,
			OrderDate:       now,
		}
		if err := orderRepo.Create(order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if redeem != nil {
			ok, err := s.voucherRepo.WithTx(tx).MarkUsed(redeem.ID, order.ID, now)
			if err != nil {
				return fmt.Errorf("mark voucher used: %w", err)
			}
			if !ok {
				return ErrVoucherAlreadyUsed
			}
		}

		if err := cartRepo.AttachDetailsToOrder(ids, order.ID); err != nil {
			return fmt.Errorf("attach items to order: %w", err)
		}

		total = orderTotal(details, *input.ShippingFee, now)
		if err := orderRepo.UpdateTotalPrice(order.ID, total); err != nil {
			return fmt.Errorf("persist total price: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		logger.Warn("Order placement failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	metrics.RecordOrderPlaced(method.Code)
	logger.Info("Order placed", map[string]interface{}{
		"user_id":        userID,
		"order_id":       orderID,
		"total_price":    total.String(),
		"payment_method": method.Code,
	})

	if method.IsOnline() {
		url, err := s.buildPaymentURL(orderID, total, input.ClientIP, input.Locale)
		if err != nil {
			return nil, err
		}
		return &PlaceOrderResult{PaymentURL: url}, nil
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return &PlaceOrderResult{Order: order}, nil
}

// redeemableVoucher returns the user's unused collection of voucherID,
// provided the voucher is within its validity window at now.
func (s *orderService) redeemableVoucher(tx *gorm.DB, userID, voucherID uint, now time.Time) (*model.UserVoucher, error) {
	uv, err := s.voucherRepo.WithTx(tx).FindUserVoucher(userID, voucherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotCollected
		}
		return nil, fmt.Errorf("load user voucher: %w", err)
	}
	if uv.UsedAt != nil {
		return nil, ErrVoucherAlreadyUsed
	}
	if !uv.Voucher.IsStarted(now) {
		return nil, ErrVoucherNotStarted
	}
	if uv.Voucher.IsExpired(now) {
		return nil, ErrVoucherExpired
	}
	return uv, nil
}

func (s *orderService) buildPaymentURL(orderID uint, amount decimal.Decimal, clientIP, locale string) (string, error) {
	if s.payments == nil {
		return "", errors.New("payment gateway is not configured")
	}
	url, err := s.payments.BuildPaymentURL(vnpay.PaymentRequest{
		OrderID:  orderID,
		Amount:   amount,
		ClientIP: clientIP,
		Locale:   locale,
	})
	if err != nil {
		logger.Error("Failed to build payment URL", err, map[string]interface{}{
			"order_id": orderID,
		})
		return "", fmt.Errorf("build payment url: %w", err)
	}
	return url, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrderByID hides other users' orders behind NotFound.
func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.UserID != userID {
		logger.Warn("Order access by non-owner", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uint, statusName string) (*model.Order, error) {
	if _, err := s.orderRepo.FindByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	status, err := s.orderRepo.FindStatusByName(strings.ToLower(strings.TrimSpace(statusName)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOrderStatus.WithMessage("unknown order status %q", statusName)
		}
		return nil, fmt.Errorf("load order status: %w", err)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status.ID); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status.Name,
	})
	return s.orderRepo.FindByID(orderID)
}

// CreatePaymentURL issues a fresh gateway URL for an unpaid online order.
func (s *orderService) CreatePaymentURL(ctx context.Context, userID, orderID uint, clientIP, locale string) (string, error) {
	order, err := s.GetOrderByID(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	if order.PaymentStatus {
		return "", ErrOrderAlreadyPaid
	}
	if !order.PaymentMethod.IsOnline() {
		return "", ErrOrderNotOnlinePayment
	}
	if order.OrderStatus.Name == model.OrderStatusCancelled {
		return "", ErrInvalidOrderStatus.WithMessage("order has been cancelled")
	}
	return s.buildPaymentURL(order.ID, order.TotalPrice, clientIP, locale)
}

// CancelStaleUnpaidOrders cancels pending online orders still unpaid after olderThan.
func (s *orderService) CancelStaleUnpaidOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	method, err := s.orderRepo.FindPaymentMethodByCode(model.PaymentMethodOnline)
	if err != nil {
		return 0, fmt.Errorf("load online payment method: %w", err)
	}
	pending, err := s.orderRepo.FindStatusByName(model.OrderStatusPending)
	if err != nil {
		return 0, fmt.Errorf("load pending status: %w", err)
	}
	cancelled, err := s.orderRepo.FindStatusByName(model.OrderStatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("load cancelled status: %w", err)
	}

	cutoff := s.now().Add(-olderThan)
	n, err := s.orderRepo.CancelStaleUnpaid(method.ID, pending.ID, cancelled.ID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cancel stale orders: %w", err)
	}

	metrics.RecordOrdersExpired(n)
	if n > 0 {
		logger.Info("Cancelled stale unpaid orders", map[string]interface{}{
			"count":  n,
			"cutoff": cutoff,
		})
	}
	return n, nil
}
