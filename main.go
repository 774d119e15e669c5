package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/naeembaloch9099/EComerce-sub000/configs"
	addressController "github.com/naeembaloch9099/EComerce-sub000/controllers/addresses"
	cartController "github.com/naeembaloch9099/EComerce-sub000/controllers/cart"
	orderController "github.com/naeembaloch9099/EComerce-sub000/controllers/orders"
	productController "github.com/naeembaloch9099/EComerce-sub000/controllers/products"
	"github.com/naeembaloch9099/EComerce-sub000/events"
	"github.com/naeembaloch9099/EComerce-sub000/middlewares"
	"github.com/naeembaloch9099/EComerce-sub000/routes"
	"github.com/naeembaloch9099/EComerce-sub000/services"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client, err := configs.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if err := configs.EnsureIndexes(ctx, client, cfg.MongoDatabase); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	carts := configs.GetCollection(client, cfg.MongoDatabase, "carts")
	orders := configs.GetCollection(client, cfg.MongoDatabase, "orders")
	products := configs.GetCollection(client, cfg.MongoDatabase, "products")
	coupons := configs.GetCollection(client, cfg.MongoDatabase, "coupons")
	addresses := configs.GetCollection(client, cfg.MongoDatabase, "addresses")

	producer := events.NewProducer(cfg.KafkaBrokers, logger)
	defer producer.Close()

	stock := services.NewMongoStockLedger(products)
	couponResolver := services.NewMongoCouponResolver(coupons)
	cartService := services.NewCartService(carts, products, couponResolver, logger)
	orderService := services.NewOrderService(orders, addresses, products, cartService, stock, producer, services.OrderPolicy{
		TaxRate:                cfg.TaxRate,
		FreeShippingThreshold:  cfg.FreeShippingThreshold,
		ReserveStockAtCheckout: cfg.ReserveStockAtCheckout,
		DeliveryLeadDays:       cfg.DeliveryLeadDays,
	}, logger)
	paymentService := services.NewPaymentService(orders, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, producer, logger)

	auth := middlewares.NewAuthMiddleware(cfg.JWTSecret)

	app := fiber.New()
	routes.CartRoutes(app, cartController.NewHandler(cartService, logger), auth)
	routes.OrderRoutes(app, orderController.NewHandler(orderService, paymentService, logger), auth)
	routes.ProductsRoute(app, productController.NewHandler(products, stock, logger))
	routes.AddressRoutes(app, addressController.NewHandler(addresses, logger), auth)

	// Periodic abandoned-cart sweep; only empty carts are eligible.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(cfg.CartSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := cartService.SweepAbandoned(sweepCtx, cfg.CartSweepAge); err != nil {
					logger.Error("cart sweep failed", zap.Error(err))
				}
			}
		}
	}()

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	stopSweep()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
