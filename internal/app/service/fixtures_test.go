package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	voucherRepo repository.VoucherRepository
	locker      CartLocker
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return &testEnv{
		db:          testDB,
		userRepo:    repository.NewUserRepository(testDB),
		productRepo: repository.NewProductRepository(testDB),
		cartRepo:    repository.NewCartRepository(testDB),
		orderRepo:   repository.NewOrderRepository(testDB),
		voucherRepo: repository.NewVoucherRepository(testDB),
		locker:      NewLocalCartLocker(time.Second),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Buyer",
		Role:         model.RoleUser,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

// createProduct creates a product, with an active discount when percent > 0.
func (e *testEnv) createProduct(t *testing.T, name string, price int64, percent int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Price:         decimal.NewFromInt(price),
		StockQuantity: 100,
	}
	if percent > 0 {
		discount := &model.Discount{
			Name:            fmt.Sprintf("%d%% off", percent),
			DiscountPercent: percent,
			StartDate:       time.Now().Add(-time.Hour),
			ExpiredDate:     time.Now().Add(24 * time.Hour),
		}
		require.NoError(t, e.db.Create(discount).Error)
		product.DiscountID = &discount.ID
	}
	require.NoError(t, e.productRepo.Create(product))
	return product
}

// addDetail puts a line item with an explicit itemPrice into the user's cart,
// creating the cart if needed.
func (e *testEnv) addDetail(t *testing.T, userID uint, product *model.Product, quantity int, itemPrice int64) *model.CartDetail {
	t.Helper()
	cart, err := e.cartRepo.FindByUserID(userID)
	if err != nil {
		cart = &model.Cart{UserID: userID}
		require.NoError(t, e.cartRepo.Create(cart))
	}
	detail := &model.CartDetail{
		CartID:    &cart.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		ItemPrice: decimal.NewFromInt(itemPrice),
	}
	require.NoError(t, e.cartRepo.CreateDetail(detail))
	return detail
}

func (e *testEnv) paymentMethodID(t *testing.T, code string) uint {
	t.Helper()
	method, err := e.orderRepo.FindPaymentMethodByCode(code)
	require.NoError(t, err)
	return method.ID
}

func (e *testEnv) createVoucher(t *testing.T, code string, maxUsage int, expires time.Time) *model.Voucher {
	t.Helper()
	v := &model.Voucher{
		Code:            code,
		Name:            "Voucher " + code,
		Type:            model.VoucherTypePublic,
		DiscountPercent: 10,
		MaxDiscount:     decimal.NewFromInt(50000),
		StartDate:       time.Now().Add(-time.Hour),
		ExpiredDate:     expires,
		MaxUsage:        &maxUsage,
	}
	require.NoError(t, e.voucherRepo.Create(v))
	return v
}

func fee(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
