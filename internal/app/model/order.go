package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeded order status names
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Seeded payment method codes
const (
	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

type OrderStatus struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
}

func (OrderStatus) TableName() string {
	return "order_statuses"
}

type PaymentMethod struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Code string `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

func (m *PaymentMethod) IsOnline() bool {
	return m != nil && m.Code == PaymentMethodOnline
}

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	ShippingMethod  string          `gorm:"type:varchar(64);not null" json:"shipping_method"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"shipping_fee"`
	PaymentMethodID uint            `gorm:"not null;index" json:"payment_method_id"`
	VoucherID       *uint           `gorm:"index" json:"voucher_id,omitempty"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_price"`
	PaymentStatus   bool            `gorm:"not null;default:false;index" json:"payment_status"`
	PaidDate        *time.Time      `json:"paid_date,omitempty"`
	PaymentTxnRef   string          `gorm:"type:varchar(64)" json:"payment_txn_ref,omitempty"`
	OrderStatusID   uint            `gorm:"not null;index" json:"order_status_id"`
	OrderDate       time.Time       `gorm:"not null;index" json:"order_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	User          User          `gorm:"foreignKey:UserID" json:"-"`
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method"`
	OrderStatus   OrderStatus   `gorm:"foreignKey:OrderStatusID" json:"order_status"`
	Voucher       *Voucher      `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	OrderDetails  []CartDetail  `gorm:"foreignKey:OrderID" json:"order_details"`
}

func (Order) TableName() string {
	return "orders"
}
