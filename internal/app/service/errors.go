package service

import (
	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
)

var (
	ErrProductNotFound = apperrors.NewNotFound(apperrors.ProductNotFound, "product not found")

	ErrCartNotFound     = apperrors.NewNotFound(apperrors.CartNotFound, "cart not found")
	ErrCartItemNotFound = apperrors.NewNotFound(apperrors.CartItemNotFound, "cart item not found")
	ErrInvalidQuantity  = apperrors.NewValidation(apperrors.CartInvalidQuantity, "quantity must be a positive integer")
	ErrItemsNotInCart   = apperrors.NewValidation(apperrors.CartItemsNotSelected, "selected items are not in cart")
	ErrCartBusy         = apperrors.NewConflict(apperrors.CartBusy, "cart is being updated, please retry")

	ErrVoucherNotFound         = apperrors.NewNotFound(apperrors.VoucherNotFound, "voucher not found")
	ErrVoucherExpired          = apperrors.NewValidation(apperrors.VoucherExpired, "voucher expired")
	ErrVoucherExhausted        = apperrors.NewValidation(apperrors.VoucherExhausted, "voucher exhausted")
	ErrVoucherCapReached       = apperrors.NewValidation(apperrors.VoucherCapReached, "voucher usage cap reached")
	ErrVoucherAlreadyCollected = apperrors.NewConflict(apperrors.VoucherAlreadyCollected, "voucher already collected")
	ErrVoucherNotCollected     = apperrors.NewValidation(apperrors.VoucherNotCollected, "voucher has not been collected")
	ErrVoucherAlreadyUsed      = apperrors.NewValidation(apperrors.VoucherAlreadyUsed, "voucher has already been used")
	ErrVoucherNotStarted       = apperrors.NewValidation(apperrors.VoucherNotStarted, "voucher is not valid yet")

	ErrOrderNotFound         = apperrors.NewNotFound(apperrors.OrderNotFound, "order not found")
	ErrInvalidPaymentMethod  = apperrors.NewValidation(apperrors.OrderInvalidPaymentMethod, "payment method not found")
	ErrInvalidOrderStatus    = apperrors.NewValidation(apperrors.OrderInvalidStatus, "invalid order status")
	ErrOrderAlreadyPaid      = apperrors.NewConflict(apperrors.OrderAlreadyPaid, "order already paid")
	ErrOrderNotOnlinePayment = apperrors.NewValidation(apperrors.OrderNotOnlinePayment, "order is not paid online")
	ErrOrderCancelled        = apperrors.NewConflict(apperrors.OrderCancelled, "order has been cancelled")
)

func newInputError(format string, args ...interface{}) error {
	return apperrors.NewValidation(apperrors.ValidationInvalidInput, "").WithMessage(format, args...)
}
