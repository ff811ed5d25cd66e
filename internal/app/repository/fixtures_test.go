package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

// createTestProduct creates a product, with an active discount when percent > 0.
func createTestProduct(t *testing.T, testDB *gorm.DB, name string, price int64, percent int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Price:         decimal.NewFromInt(price),
		StockQuantity: 10,
	}
	if percent > 0 {
		discount := &model.Discount{
			Name:            fmt.Sprintf("%d%% off", percent),
			DiscountPercent: percent,
			StartDate:       time.Now().Add(-time.Hour),
			ExpiredDate:     time.Now().Add(24 * time.Hour),
		}
		require.NoError(t, testDB.Create(discount).Error)
		product.DiscountID = &discount.ID
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createTestCart(t *testing.T, testDB *gorm.DB, userID uint) *model.Cart {
	t.Helper()
	cart := &model.Cart{UserID: userID}
	require.NoError(t, testDB.Create(cart).Error)
	return cart
}

func createTestDetail(t *testing.T, repo CartRepository, cartID uint, product *model.Product, quantity int) *model.CartDetail {
	t.Helper()
	detail := &model.CartDetail{
		CartID:    &cartID,
		ProductID: product.ID,
		Quantity:  quantity,
		ItemPrice: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	require.NoError(t, repo.CreateDetail(detail))
	return detail
}

func statusID(t *testing.T, testDB *gorm.DB, name string) uint {
	t.Helper()
	var status model.OrderStatus
	require.NoError(t, testDB.Where("name = ?", name).First(&status).Error)
	return status.ID
}

func paymentMethodID(t *testing.T, testDB *gorm.DB, code string) uint {
	t.Helper()
	var method model.PaymentMethod
	require.NoError(t, testDB.Where("code = ?", code).First(&method).Error)
	return method.ID
}
