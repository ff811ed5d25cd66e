package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VoucherType string

const (
	VoucherTypePublic  VoucherType = "public"
	VoucherTypePrivate VoucherType = "private"
)

var ErrPublicVoucherNeedsMaxUsage = errors.New("public voucher requires max_usage")

type Voucher struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Code            string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name            string          `gorm:"not null" json:"name"`
	Type            VoucherType     `gorm:"type:varchar(16);not null;default:'public'" json:"type"`
	DiscountPercent int             `gorm:"not null" json:"discount_percent"`
	MaxDiscount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"max_discount"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	ExpiredDate     time.Time       `gorm:"not null;index" json:"expired_date"`
	MaxUsage        *int            `json:"max_usage,omitempty"`
	CollectedCount  int             `gorm:"not null;default:0" json:"collected_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Voucher) TableName() string {
	return "vouchers"
}

func (v *Voucher) BeforeSave(tx *gorm.DB) error {
	if v.Type == VoucherTypePublic && v.MaxUsage == nil {
		return ErrPublicVoucherNeedsMaxUsage
	}
	return nil
}

func (v *Voucher) IsExpired(now time.Time) bool {
	return !v.ExpiredDate.After(now)
}

func (v *Voucher) IsStarted(now time.Time) bool {
	return !v.StartDate.After(now)
}

// IsExhausted reports whether a public voucher has no collections left.
// Private vouchers are never exhausted.
func (v *Voucher) IsExhausted() bool {
	if v.Type != VoucherTypePublic {
		return false
	}
	return v.MaxUsage == nil || v.CollectedCount >= *v.MaxUsage
}

// UserVoucher records that a user collected a voucher.
type UserVoucher struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_voucher" json:"user_id"`
	VoucherID   uint       `gorm:"not null;uniqueIndex:idx_user_voucher" json:"voucher_id"`
	CollectedAt time.Time  `gorm:"not null;index" json:"collected_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	OrderID     *uint      `gorm:"index" json:"order_id,omitempty"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Voucher Voucher `gorm:"foreignKey:VoucherID" json:"voucher"`
}

func (UserVoucher) TableName() string {
	return "user_vouchers"
}
