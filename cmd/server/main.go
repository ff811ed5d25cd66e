package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NPNKhoa/CT250-backend-sub000/config"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/controller"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/repository"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/db"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/router"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/scheduler"
	ws "github.com/NPNKhoa/CT250-backend-sub000/internal/websocket"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/logger"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/payment/vnpay"
	appredis "github.com/NPNKhoa/CT250-backend-sub000/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting CT250 Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations, reference data included
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Cart lock: redis when several instances share the database
	var locker service.CartLocker = service.NewLocalCartLocker(cfg.Cart.LockTimeout)
	if cfg.Redis.Enabled {
		if err := appredis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := appredis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		locker = service.NewRedisCartLocker(appredis.GetClient(), cfg.Cart.LockTTL, cfg.Cart.LockTimeout)
	}

	gateway, err := vnpay.NewClient(vnpay.Config{
		TmnCode:    cfg.Payment.VNPay.TmnCode,
		HashSecret: cfg.Payment.VNPay.HashSecret,
		PayURL:     cfg.Payment.VNPay.PayURL,
		ReturnURL:  cfg.Payment.VNPay.ReturnURL,
		Locale:     cfg.Payment.VNPay.Locale,
		OrderType:  cfg.Payment.VNPay.OrderType,
		Location:   vnpay.LoadLocation(cfg.Payment.VNPay.Timezone),
	})
	if err != nil {
		logger.Fatal("Failed to initialize VNPay client", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	voucherRepo := repository.NewVoucherRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, locker, db.GetDB())
	voucherService := service.NewVoucherService(voucherRepo, db.GetDB())
	orderService := service.NewOrderService(orderRepo, cartRepo, voucherRepo, locker, gateway, db.GetDB())
	paymentService := service.NewPaymentService(orderRepo, gateway, hub)

	// Initialize controllers
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	voucherController := controller.NewVoucherController(voucherService)
	orderController := controller.NewOrderController(orderService)
	paymentController := controller.NewPaymentController(paymentService, cfg.Payment.VNPay.FrontendSuccessURL)
	notificationController := controller.NewNotificationController(hub, cfg.WebSocket.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		voucherController,
		orderController,
		paymentController,
		notificationController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	var expiry *scheduler.OrderExpiryScheduler
	if cfg.Scheduler.Enabled {
		expiry = scheduler.NewOrderExpiryScheduler(orderService, cfg.Scheduler.OrderExpirySpec, cfg.Scheduler.UnpaidOrderTTL)
		if err := expiry.Start(); err != nil {
			logger.Fatal("Failed to start order expiry scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	if expiry != nil {
		expiry.Stop()
	}
	cancel()

	logger.Info("Server stopped successfully")
}
