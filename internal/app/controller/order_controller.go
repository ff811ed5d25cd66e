package controller

import (
	"net/http"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	LineItemIDs     []uint           `json:"line_item_ids" binding:"required,min=1"`
	ShippingAddress string           `json:"shipping_address" binding:"required"`
	ShippingMethod  string           `json:"shipping_method" binding:"required"`
	ShippingFee     *decimal.Decimal `json:"shipping_fee" binding:"required"`
	PaymentMethodID uint             `json:"payment_method_id" binding:"required"`
	VoucherID       *uint            `json:"voucher_id"`
	Locale          string           `json:"locale" binding:"omitempty,oneof=vn en"`
}

type PaymentURLRequest struct {
	Locale string `json:"locale" binding:"omitempty,oneof=vn en"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder places an order from selected cart items
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, service.PlaceOrderInput{
		LineItemIDs:     req.LineItemIDs,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		ShippingFee:     req.ShippingFee,
		PaymentMethodID: req.PaymentMethodID,
		VoucherID:       req.VoucherID,
		ClientIP:        c.ClientIP(),
		Locale:          req.Locale,
	})
	if err != nil {
		respondServiceError(c, "Failed to place order", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":        userID,
		"online_payment": result.PaymentURL != "",
	})
	c.JSON(http.StatusCreated, result)
}

// GetOrders returns user's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(c.Request.Context(), userID, orderID)
	if err != nil {
		respondServiceError(c, "Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreatePaymentURL issues a new gateway URL for an unpaid online order
// POST /api/v1/orders/:id/payment-url
func (ctrl *OrderController) CreatePaymentURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PaymentURLRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	url, err := ctrl.orderService.CreatePaymentURL(c.Request.Context(), userID, orderID, c.ClientIP(), req.Locale)
	if err != nil {
		respondServiceError(c, "Failed to create payment url", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_url": url,
	})
}

// UpdateOrderStatus moves an order to another status (admin only)
// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondServiceError(c, "Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   req.Status,
		})
		return
	}

	adminID, _ := middleware.GetUserID(c)
	log.Info("Order status updated by admin", map[string]interface{}{
		"admin_id": adminID,
		"order_id": orderID,
		"status":   order.OrderStatus.Name,
	})
	c.JSON(http.StatusOK, order)
}
