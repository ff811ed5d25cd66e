package vnpay

import (
	"github.com/shopspring/decimal"
)

const (
	Version      = "2.1.0"
	CommandPay   = "pay"
	CurrencyCode = "VND"

	// ResponseCodeSuccess is the vnp_ResponseCode of an approved payment
	ResponseCodeSuccess = "00"

	timestampLayout = "20060102150405"
)

// IPN acknowledgement codes returned to the gateway
const (
	RspConfirmed        = "00"
	RspOrderNotFound    = "01"
	RspAlreadyConfirmed = "02"
	RspInvalidAmount    = "04"
	RspInvalidSignature = "97"
	RspUnknownError     = "99"
)

// PaymentRequest represents the input for building a redirect URL
type PaymentRequest struct {
	OrderID   uint
	Amount    decimal.Decimal
	ClientIP  string
	Locale    string
	OrderInfo string // optional, generated from OrderID and Amount when empty
}

// ReturnParams holds the fields of a verified return or IPN callback
type ReturnParams struct {
	OrderID       uint
	TxnRef        string
	Amount        decimal.Decimal // in VND, vnp_Amount / 100
	ResponseCode  string
	TransactionNo string
	BankCode      string
	PayDate       string
}

// Succeeded reports whether the gateway approved the payment
func (p *ReturnParams) Succeeded() bool {
	return p.ResponseCode == ResponseCodeSuccess
}

// IPNResponse is the body VNPay expects from the IPN endpoint
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}
