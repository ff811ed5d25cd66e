package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/metrics"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/payment/vnpay"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const NotificationPaymentConfirmed = "payment_confirmed"

// ReturnVerifier checks and parses a signed gateway callback.
type ReturnVerifier interface {
	VerifyReturn(params url.Values) (*vnpay.ReturnParams, error)
}

// PaymentNotifier pushes an event to a user's open sessions. It must not block.
type PaymentNotifier interface {
	NotifyUser(userID uint, message interface{}) error
}

// PaymentEvent is pushed to the buyer when their payment is confirmed
type PaymentEvent struct {
	Type       string          `json:"type"`
	OrderID    uint            `json:"order_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// PaymentResult is a confirmed payment. Replayed is set when the order was
// already paid before this callback.
type PaymentResult struct {
	Order    *model.Order
	Replayed bool
}

type PaymentService interface {
	VerifyReturn(ctx context.Context, params url.Values) (*PaymentResult, error)
}

type paymentService struct {
	orderRepo repository.OrderRepository
	verifier  ReturnVerifier
	notifier  PaymentNotifier
	now       func() time.Time
}

// NewPaymentService wires the callback flow. notifier may be nil.
func NewPaymentService(orderRepo repository.OrderRepository, verifier ReturnVerifier, notifier PaymentNotifier) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		verifier:  verifier,
		notifier:  notifier,
		now:       time.Now,
	}
}

// VerifyReturn checks signature, order, response code and amount in that
// order, then marks the order paid. The write is conditional on the order
// being unpaid and not cancelled, so replays return the stored order without
// side effects and a cancelled order is never settled.
func (s *paymentService) VerifyReturn(ctx context.Context, params url.Values) (*PaymentResult, error) {
	result, outcome, err := s.verifyReturn(params)
	metrics.RecordPaymentCallback(outcome)
	if err != nil {
		logger.Warn("Payment callback rejected", map[string]interface{}{
			"txn_ref": params.Get("vnp_TxnRef"),
			"outcome": outcome,
		})
		return nil, err
	}
	return result, nil
}

func (s *paymentService) verifyReturn(params url.Values) (*PaymentResult, string, error) {
	callback, err := s.verifier.VerifyReturn(params)
	switch {
	case errors.Is(err, vnpay.ErrInvalidSignature):
		return nil, metrics.OutcomeInvalidSignature, err
	case errors.Is(err, vnpay.ErrInvalidTxnRef):
		return nil, metrics.OutcomeNotFound, ErrOrderNotFound
	case errors.Is(err, vnpay.ErrInvalidAmount):
		return nil, metrics.OutcomeAmountMismatch, vnpay.ErrAmountMismatch
	case err != nil:
		return nil, metrics.OutcomeError, fmt.Errorf("verify callback: %w", err)
	}

	order, err := s.orderRepo.FindByID(callback.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, metrics.OutcomeNotFound, ErrOrderNotFound
		}
		return nil, metrics.OutcomeError, fmt.Errorf("load order: %w", err)
	}

	if !callback.Succeeded() {
		return nil, metrics.OutcomeDeclined, &vnpay.DeclinedError{Code: callback.ResponseCode}
	}

	if !callback.Amount.Equal(order.TotalPrice) {
		logger.Warn("Payment amount mismatch", map[string]interface{}{
			"order_id":    order.ID,
			"paid_amount": callback.Amount.String(),
			"total_price": order.TotalPrice.String(),
		})
		return nil, metrics.OutcomeAmountMismatch, vnpay.ErrAmountMismatch
	}

	if !order.PaymentStatus && order.OrderStatus.Name == model.OrderStatusCancelled {
		return nil, metrics.OutcomeCancelled, s.rejectCancelled(order.ID, callback.TxnRef)
	}

	applied, err := s.orderRepo.MarkPaid(order.ID, callback.TxnRef, s.now())
	if err != nil {
		return nil, metrics.OutcomeError, fmt.Errorf("mark order paid: %w", err)
	}

	stored, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, metrics.OutcomeError, fmt.Errorf("reload order: %w", err)
	}

	if !applied && !stored.PaymentStatus {
		// cancelled between the load and the write
		return nil, metrics.OutcomeCancelled, s.rejectCancelled(order.ID, callback.TxnRef)
	}

	if !applied {
		logger.Info("Payment callback replayed for paid order", map[string]interface{}{
			"order_id": order.ID,
			"txn_ref":  callback.TxnRef,
		})
		return &PaymentResult{Order: stored, Replayed: true}, metrics.OutcomeReplay, nil
	}

	logger.Info("Order payment confirmed", map[string]interface{}{
		"order_id":       stored.ID,
		"txn_ref":        callback.TxnRef,
		"transaction_no": callback.TransactionNo,
		"bank_code":      callback.BankCode,
	})
	s.notify(stored)
	return &PaymentResult{Order: stored}, metrics.OutcomeSuccess, nil
}

func (s *paymentService) notify(order *model.Order) {
	if s.notifier == nil {
		return
	}
	event := PaymentEvent{
		Type:       NotificationPaymentConfirmed,
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
	}
	if err := s.notifier.NotifyUser(order.UserID, event); err != nil {
		logger.Warn("Failed to queue payment notification", map[string]interface{}{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}

func (s *paymentService) rejectCancelled(orderID uint, txnRef string) error {
	logger.Warn("Payment received for cancelled order", map[string]interface{}{
		"order_id": orderID,
		"txn_ref":  txnRef,
	})
	return ErrOrderCancelled
}
