package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discount is a percentage markdown valid inside [StartDate, ExpiredDate).
type Discount struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	DiscountPercent int            `gorm:"not null;default:0" json:"discount_percent"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	ExpiredDate     time.Time      `gorm:"not null" json:"expired_date"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Discount) TableName() string {
	return "discounts"
}

// ActiveAt reports whether the discount applies at now. A nil discount is never active.
func (d *Discount) ActiveAt(now time.Time) bool {
	if d == nil {
		return false
	}
	return !now.Before(d.StartDate) && now.Before(d.ExpiredDate)
}

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	DiscountID    *uint           `gorm:"index" json:"discount_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Discount *Discount `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountPercent returns the active discount percent, 0 when the product
// has no discount or it is outside its validity window.
func (p *Product) DiscountPercent(now time.Time) int {
	if !p.Discount.ActiveAt(now) {
		return 0
	}
	return p.Discount.DiscountPercent
}

// DiscountedPrice is the unit price after the active discount.
func (p *Product) DiscountedPrice(now time.Time) decimal.Decimal {
	return ApplyPercentOff(p.Price, p.DiscountPercent(now))
}
