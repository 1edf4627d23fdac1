package routes

import (
	"net/http"
	"time"

	"roamly/handlers"
	"roamly/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the reservation lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.AuthMiddleware())
		api.POST("", hb.CreateBookingHandler)
		api.GET("/me", hb.ListMyBookingsHandler)
		api.GET("/hosting", hb.ListHostBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.PATCH("/:id/status", hb.UpdateBookingStatusHandler)
		api.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterPaymentRoutes sets up the escrow payment endpoints. The webhook is
// registered separately; gateways do not carry user tokens.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.AuthMiddleware())
		api.POST("/intent", hb.CreatePaymentIntentHandler)

		// Moving funds out of escrow is an operator action.
		admin := api.Group("")
		admin.Use(middleware.AdminOnlyMiddleware())
		admin.POST("/:id/release", hb.ReleasePaymentHandler)
		admin.POST("/:id/refund", hb.RefundPaymentHandler)
	}

	r.POST("/api/payments/webhook", hb.PaymentWebhookHandler)
}

// RegisterReviewRoutes sets up the review ledger endpoints. Listing reviews
// and reading the rating aggregate are public.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.Use(middleware.AuthMiddleware())
		api.POST("", hb.CreateReviewHandler)
		api.PATCH("/:id", hb.UpdateReviewHandler)
		api.DELETE("/:id", hb.DeleteReviewHandler)
		api.POST("/:id/response", hb.RespondToReviewHandler)
	}

	r.GET("/api/services/:serviceId/reviews", hb.ListServiceReviewsHandler)
	r.GET("/api/services/:serviceId/rating", hb.GetServiceRatingHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Roamly"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
}
