// File: roamly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roamly/config"
	"roamly/cron"
	"roamly/database"
	bookingRepoPkg "roamly/database/repository/booking"
	catalogRepoPkg "roamly/database/repository/catalog"
	paymentRepoPkg "roamly/database/repository/payment"
	reviewRepoPkg "roamly/database/repository/review"
	"roamly/handlers"
	"roamly/middleware"
	"roamly/routes"
	"roamly/services/booking"
	"roamly/services/notification"
	"roamly/services/payment"
	"roamly/services/review"
	"roamly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// services.
	notificationService := notification.NewAsynqNotificationService()

	escrowService := &payment.DefaultEscrowService{
		Payments:     paymentRepo,
		Bookings:     bookingRepo,
		Gateway:      &payment.StripeGateway{},
		Notification: notificationService,
		Logger:       logger,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:         bookingRepo,
		Catalog:      catalogRepo,
		Escrow:       escrowService,
		Notification: notificationService,
		Logger:       logger,
		FeePercent:   config.AppConfig.ServiceFeePercent,
		CancelCutoff: time.Duration(config.AppConfig.CancelCutoffHours) * time.Hour,
	}

	reviewService := &review.DefaultReviewService{
		Reviews:      reviewRepo,
		Bookings:     bookingRepo,
		Catalog:      catalogRepo,
		Cache:        utils.GetCacheClient(),
		Notification: notificationService,
		Logger:       logger,
		EditWindow:   time.Duration(config.AppConfig.ReviewEditWindowDays) * 24 * time.Hour,
	}

	// Background notification worker.
	cron.InitNotificationWorker(cron.LogMailer{})

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		BookingSvc: bookingService,
		EscrowSvc:  escrowService,
		ReviewSvc:  reviewService,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
