package vnpay

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// Client builds signed VNPay redirect URLs and verifies callbacks.
// It performs no network I/O.
type Client struct {
	config  Config
	printer *message.Printer
	now     func() time.Time
}

// NewClient creates a new VNPay client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Locale == "" {
		config.Locale = DefaultLocale
	}
	if config.OrderType == "" {
		config.OrderType = DefaultOrderType
	}
	if config.Location == nil {
		config.Location = LoadLocation(DefaultTimezone)
	}

	return &Client{
		config:  config,
		printer: message.NewPrinter(language.Vietnamese),
		now:     time.Now,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// BuildPaymentURL returns the gateway URL the browser should be sent to.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.OrderID == 0 || !req.Amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	params := c.buildParams(req)
	params.Set(paramSecureHash, Sign(c.config.HashSecret, CanonicalString(params)))

	return c.config.PayURL + "?" + params.Encode(), nil
}

func (c *Client) buildParams(req PaymentRequest) url.Values {
	stamp := c.now().In(c.config.Location).Format(timestampLayout)

	locale := req.Locale
	if locale == "" {
		locale = c.config.Locale
	}
	info := req.OrderInfo
	if info == "" {
		info = c.OrderInfo(req.OrderID, req.Amount)
	}

	params := url.Values{}
	params.Set("vnp_Version", Version)
	params.Set("vnp_Command", CommandPay)
	params.Set("vnp_TmnCode", c.config.TmnCode)
	params.Set("vnp_Locale", locale)
	params.Set("vnp_CurrCode", CurrencyCode)
	params.Set("vnp_TxnRef", fmt.Sprintf("%d-%s", req.OrderID, stamp))
	params.Set("vnp_OrderInfo", info)
	params.Set("vnp_OrderType", c.config.OrderType)
	params.Set("vnp_Amount", req.Amount.Mul(hundred).Round(0).String())
	params.Set("vnp_ReturnUrl", c.config.ReturnURL)
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_CreateDate", stamp)
	return params
}

// OrderInfo is the human readable description shown on the gateway page.
func (c *Client) OrderInfo(orderID uint, amount decimal.Decimal) string {
	return c.printer.Sprintf("Thanh toan don hang %d. So tien %d VND", orderID, amount.Round(0).IntPart())
}

// VerifySignature checks vnp_SecureHash against the other vnp_ parameters.
func (c *Client) VerifySignature(params url.Values) error {
	if !verify(c.config.HashSecret, params) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyReturn checks the signature and parses the callback fields. It does
// not interpret the response code; callers decide what a decline means.
func (c *Client) VerifyReturn(params url.Values) (*ReturnParams, error) {
	if err := c.VerifySignature(params); err != nil {
		return nil, err
	}

	txnRef := params.Get("vnp_TxnRef")
	orderID, err := ParseTxnRef(txnRef)
	if err != nil {
		return nil, err
	}

	raw, err := decimal.NewFromString(params.Get("vnp_Amount"))
	if err != nil || !raw.IsInteger() {
		return nil, ErrInvalidAmount
	}

	return &ReturnParams{
		OrderID:       orderID,
		TxnRef:        txnRef,
		Amount:        raw.Div(hundred),
		ResponseCode:  params.Get("vnp_ResponseCode"),
		TransactionNo: params.Get("vnp_TransactionNo"),
		BankCode:      params.Get("vnp_BankCode"),
		PayDate:       params.Get("vnp_PayDate"),
	}, nil
}

// ParseTxnRef extracts the order id from "{orderId}-{yyyyMMddHHmmss}".
// Everything after the first '-' is ignored.
func ParseTxnRef(ref string) (uint, error) {
	head, _, _ := strings.Cut(ref, "-")
	id, err := strconv.ParseUint(head, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidTxnRef
	}
	return uint(id), nil
}
