package vnpay

import (
	"time"
)

const (
	DefaultLocale    = "vn"
	DefaultOrderType = "other"
	DefaultTimezone  = "Asia/Ho_Chi_Minh"
)

// Config represents the configuration for the VNPay client
type Config struct {
	// TmnCode is the merchant terminal code issued by VNPay
	TmnCode string

	// HashSecret keys the HMAC-SHA512 signature
	HashSecret string

	// PayURL is the gateway payment page
	PayURL string

	// ReturnURL is where the gateway redirects the browser after payment
	ReturnURL string

	// Locale is sent when the request does not carry one
	Locale string

	// OrderType is the VNPay goods category
	OrderType string

	// Location formats vnp_CreateDate and the txn ref timestamp.
	// Nil means Asia/Ho_Chi_Minh.
	Location *time.Location
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TmnCode == "" {
		return ErrInvalidConfig
	}
	if c.HashSecret == "" {
		return ErrInvalidConfig
	}
	if c.PayURL == "" {
		return ErrInvalidConfig
	}
	if c.ReturnURL == "" {
		return ErrInvalidConfig
	}
	return nil
}

// LoadLocation resolves a tz database name, falling back to a fixed +07:00
// zone when the name is empty or tzdata is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}
