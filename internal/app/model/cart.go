package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is created lazily on the first add, one per user.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User        User         `gorm:"foreignKey:UserID" json:"-"`
	CartDetails []CartDetail `gorm:"foreignKey:CartID" json:"cart_details"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartDetail is a line item. While it sits in a cart CartID is set; checkout
// clears CartID and sets OrderID, and the row becomes the order's snapshot.
type CartDetail struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CartID    *uint           `gorm:"uniqueIndex:idx_cart_product" json:"cart_id,omitempty"`
	OrderID   *uint           `gorm:"index" json:"order_id,omitempty"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	ItemPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"item_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartDetail) TableName() string {
	return "cart_details"
}

// CartTotals sums item prices and quantities. Totals are never stored.
func CartTotals(details []CartDetail) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, d := range details {
		total = total.Add(d.ItemPrice)
		count += d.Quantity
	}
	return total, count
}
