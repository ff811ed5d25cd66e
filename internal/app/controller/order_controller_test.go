package controller

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderBody(lineItems []uint, paymentMethodID uint) gin.H {
	return gin.H{
		"line_item_ids":     lineItems,
		"shipping_address":  "12 Nguyen Hue, District 1",
		"shipping_method":   "standard",
		"shipping_fee":      20000,
		"payment_method_id": paymentMethodID,
	}
}

func TestOrderController_CreateCOD(t *testing.T) {
	env := setupControllerTest(t)
	keyboard := env.createProduct(t, "Keyboard", 100000, 10)
	mouse := env.createProduct(t, "Mouse", 50000, 0)
	l1 := env.addToCart(t, keyboard, 1)
	l2 := env.addToCart(t, mouse, 1)
	cod := env.paymentMethodID(t, model.PaymentMethodCOD)

	w := env.do(t, http.MethodPost, "/api/v1/orders", "user", orderBody([]uint{l1, l2}, cod))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeJSON(t, w)
	assert.Empty(t, body["payment_url"])
	order := body["order"].(map[string]interface{})
	// the 90000 snapshot is discounted again at checkout: 81000 + 50000 + 20000
	assert.Equal(t, float64(151000), order["total_price"])
	orderID := uint(order["id"].(float64))

	w = env.do(t, http.MethodGet, "/api/v1/orders", "user", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeJSON(t, w)["count"])

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), "user", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), "other", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.OrderNotFound, decodeJSON(t, w)["error"])

	w = env.do(t, http.MethodGet, "/api/v1/orders/zero", "user", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// the items left the cart with the order
	w = env.do(t, http.MethodPost, "/api/v1/orders", "user", orderBody([]uint{l1}, cod))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CartItemsNotSelected, decodeJSON(t, w)["error"])

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/payment-url", orderID), "user", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.OrderNotOnlinePayment, decodeJSON(t, w)["error"])
}

func TestOrderController_CreateOnline(t *testing.T) {
	env := setupControllerTest(t)
	keyboard := env.createProduct(t, "Keyboard", 100000, 0)
	line := env.addToCart(t, keyboard, 1)
	online := env.paymentMethodID(t, model.PaymentMethodOnline)

	w := env.do(t, http.MethodPost, "/api/v1/orders", "user", orderBody([]uint{line}, online))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeJSON(t, w)
	assert.Nil(t, body["order"])
	paymentURL, _ := body["payment_url"].(string)
	assert.True(t, strings.HasPrefix(paymentURL, "https://sandbox.vnpayment.vn/"), paymentURL)

	orders, err := env.orderRepo.FindByUserID(env.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.False(t, orders[0].PaymentStatus)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/payment-url", orders[0].ID), "user", gin.H{"locale": "en"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decodeJSON(t, w)["payment_url"], "vnp_Locale=en")

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/payment-url", orders[0].ID), "user", gin.H{"locale": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_CreateValidation(t *testing.T) {
	env := setupControllerTest(t)
	cod := env.paymentMethodID(t, model.PaymentMethodCOD)

	tests := []struct {
		name string
		edit func(gin.H)
		code string
	}{
		{"no items", func(b gin.H) { b["line_item_ids"] = []uint{} }, apperrors.ValidationInvalidInput},
		{"no address", func(b gin.H) { delete(b, "shipping_address") }, apperrors.ValidationInvalidInput},
		{"no fee", func(b gin.H) { delete(b, "shipping_fee") }, apperrors.ValidationInvalidInput},
		{"negative fee", func(b gin.H) { b["shipping_fee"] = -1 }, apperrors.ValidationInvalidInput},
		{"unknown method", func(b gin.H) { b["payment_method_id"] = 9999 }, apperrors.OrderInvalidPaymentMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyboard := env.createProduct(t, "Keyboard "+tt.name, 100000, 0)
			line := env.addToCart(t, keyboard, 1)
			body := orderBody([]uint{line}, cod)
			tt.edit(body)

			w := env.do(t, http.MethodPost, "/api/v1/orders", "user", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeJSON(t, w)["error"])
		})
	}

	w := env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody([]uint{1}, cod))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderController_UpdateStatus(t *testing.T) {
	env := setupControllerTest(t)
	keyboard := env.createProduct(t, "Keyboard", 100000, 0)
	line := env.addToCart(t, keyboard, 1)
	w := env.do(t, http.MethodPost, "/api/v1/orders", "user", orderBody([]uint{line}, env.paymentMethodID(t, model.PaymentMethodCOD)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(decodeJSON(t, w)["order"].(map[string]interface{})["id"].(float64))
	path := fmt.Sprintf("/api/v1/orders/%d/status", orderID)

	w = env.do(t, http.MethodPut, path, "user", gin.H{"status": model.OrderStatusShipping})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	status := decodeJSON(t, w)["order_status"].(map[string]interface{})
	assert.Equal(t, model.OrderStatusShipping, status["name"])

	w = env.do(t, http.MethodPut, path, "user", gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.OrderInvalidStatus, decodeJSON(t, w)["error"])

	w = env.do(t, http.MethodPut, path, "user", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
