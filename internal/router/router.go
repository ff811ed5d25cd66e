package router

import (
	"net/http"

	"github.com/NPNKhoa/CT250-backend-sub000/config"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/controller"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/model"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	productController      *controller.ProductController
	cartController         *controller.CartController
	voucherController      *controller.VoucherController
	orderController        *controller.OrderController
	paymentController      *controller.PaymentController
	notificationController *controller.NotificationController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	voucherController *controller.VoucherController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	notificationController *controller.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:      productController,
		cartController:         cartController,
		voucherController:      voucherController,
		orderController:        orderController,
		paymentController:      paymentController,
		notificationController: notificationController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "CT250 API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		vouchers := v1.Group("/vouchers")
		{
			vouchers.GET("/publishing", r.voucherController.ListPublishing)
			vouchers.GET("/code/:code", r.voucherController.GetByCode)
			vouchers.GET("/me", r.authMiddleware.Authenticate(), r.voucherController.ListMine)
			vouchers.POST("/:id/collect", r.authMiddleware.Authenticate(), r.voucherController.Collect)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/:id/payment-url", r.orderController.CreatePaymentURL)

			orders.PUT("/:id/status",
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.orderController.UpdateOrderStatus,
			)
		}

		// browsers cannot set headers on the upgrade request, so the token rides in ?token=
		v1.GET("/ws/notifications", r.authMiddleware.Authenticate(), r.notificationController.Connect)

		payments := v1.Group("/payments/vnpay")
		{
			payments.GET("/return", r.paymentController.VNPayReturn)
			payments.GET("/ipn", r.paymentController.VNPayIPN)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
