package vnpay

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when required configuration is missing
	ErrInvalidConfig = errors.New("invalid vnpay configuration")

	// ErrInvalidSignature is returned when vnp_SecureHash does not match the parameters
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrInvalidTxnRef is returned when vnp_TxnRef does not start with an order id
	ErrInvalidTxnRef = errors.New("invalid transaction reference")

	// ErrInvalidAmount is returned when vnp_Amount is not an integer
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrAmountMismatch is returned when the paid amount differs from the order total
	ErrAmountMismatch = errors.New("payment amount does not match order total")
)

// DeclinedError carries a non-success vnp_ResponseCode.
type DeclinedError struct {
	Code string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment declined with response code %s", e.Code)
}
