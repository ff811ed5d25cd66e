package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/db"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/payment/vnpay"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testHashSecret = "CONTROLLERSECRET"
	testSuccessURL = "http://localhost:5173/thank-you"
)

type controllerEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	voucherRepo repository.VoucherRepository
	gateway     *vnpay.Client
	user        *model.User
	other       *model.User
}

// asUser stands in for the auth middleware, picking the user from X-Test-User.
func asUser(userID, otherID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.GetHeader("X-Test-User") {
		case "user":
			c.Set(middleware.UserIDKey, userID)
		case "other":
			c.Set(middleware.UserIDKey, otherID)
		}
		c.Next()
	}
}

func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	voucherRepo := repository.NewVoucherRepository(testDB)

	gateway, err := vnpay.NewClient(vnpay.Config{
		TmnCode:    "DEMO0001",
		HashSecret: testHashSecret,
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/api/v1/payments/vnpay/return",
	})
	require.NoError(t, err)

	locker := service.NewLocalCartLocker(time.Second)
	cartCtrl := NewCartController(service.NewCartService(cartRepo, productRepo, locker, testDB))
	voucherCtrl := NewVoucherController(service.NewVoucherService(voucherRepo, testDB))
	orderCtrl := NewOrderController(service.NewOrderService(orderRepo, cartRepo, voucherRepo, locker, gateway, testDB))
	paymentCtrl := NewPaymentController(service.NewPaymentService(orderRepo, gateway, nil), testSuccessURL)
	productCtrl := NewProductController(service.NewProductService(productRepo))

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer", Role: model.RoleUser}
	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(user))
	require.NoError(t, userRepo.Create(other))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware(), asUser(user.ID, other.ID))

	api := router.Group("/api/v1")
	api.GET("/products", productCtrl.ListProducts)
	api.GET("/products/:id", productCtrl.GetProduct)

	api.GET("/cart", cartCtrl.GetCart)
	api.POST("/cart", cartCtrl.AddToCart)
	api.PUT("/cart/:id", cartCtrl.UpdateCartItem)
	api.DELETE("/cart/:id", cartCtrl.RemoveFromCart)
	api.DELETE("/cart", cartCtrl.ClearCart)

	api.GET("/vouchers/publishing", voucherCtrl.ListPublishing)
	api.GET("/vouchers/code/:code", voucherCtrl.GetByCode)
	api.GET("/vouchers/me", voucherCtrl.ListMine)
	api.POST("/vouchers/:id/collect", voucherCtrl.Collect)

	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders", orderCtrl.GetOrders)
	api.GET("/orders/:id", orderCtrl.GetOrderByID)
	api.POST("/orders/:id/payment-url", orderCtrl.CreatePaymentURL)
	api.PUT("/orders/:id/status", orderCtrl.UpdateOrderStatus)

	api.GET("/payments/vnpay/return", paymentCtrl.VNPayReturn)
	api.GET("/payments/vnpay/ipn", paymentCtrl.VNPayIPN)

	return &controllerEnv{
		db:          testDB,
		router:      router,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		voucherRepo: voucherRepo,
		gateway:     gateway,
		user:        user,
		other:       other,
	}
}

// do sends a request as who ("user", "other" or "" for anonymous).
func (e *controllerEnv) do(t *testing.T, method, path, who string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who != "" {
		req.Header.Set("X-Test-User", who)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (e *controllerEnv) createProduct(t *testing.T, name string, price int64, percent int) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Price: decimal.NewFromInt(price), StockQuantity: 10}
	if percent > 0 {
		discount := &model.Discount{
			Name:            name + " sale",
			DiscountPercent: percent,
			StartDate:       time.Now().Add(-time.Hour),
			ExpiredDate:     time.Now().Add(24 * time.Hour),
		}
		require.NoError(t, e.db.Create(discount).Error)
		product.DiscountID = &discount.ID
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *controllerEnv) paymentMethodID(t *testing.T, code string) uint {
	t.Helper()
	method, err := e.orderRepo.FindPaymentMethodByCode(code)
	require.NoError(t, err)
	return method.ID
}

// addToCart adds through the API and returns the line item id for product.
func (e *controllerEnv) addToCart(t *testing.T, product *model.Product, quantity int) uint {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/cart", "user", gin.H{"product_id": product.ID, "quantity": quantity})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cart, err := e.cartRepo.FindByUserID(e.user.ID)
	require.NoError(t, err)
	for _, d := range cart.CartDetails {
		if d.ProductID == product.ID {
			return d.ID
		}
	}
	t.Fatalf("product %d not in cart", product.ID)
	return 0
}
