package routes

import (
	"time"

	"ziyonstar/handlers"
	"ziyonstar/middleware"
	"ziyonstar/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Booking
	api := r.Group("/api/bookings")
	api.Use(middleware.AuthMiddleware(hb.Tokens, hb.AdminToken))
	{
		api.POST("", middleware.RequireRole(utils.RoleUser), h.CreateBookingHandler)
		api.GET("", middleware.RequireAdmin(), h.ListAllBookingsHandler)
		api.GET("/:id", h.GetBookingHandler)
		api.GET("/user/:userId", h.ListUserBookingsHandler)
		api.GET("/technician/:technicianId", h.ListTechnicianBookingsHandler)
		api.GET("/technician/:technicianId/wallet", h.WalletHandler)

		api.POST("/:id/respond", middleware.RequireRole(utils.RoleTechnician), h.RespondHandler)
		api.POST("/:id/status", h.UpdateStatusHandler)
		api.POST("/:id/reassign", middleware.RequireRole(utils.RoleUser), h.ReassignHandler)
		api.POST("/:id/assign", middleware.RequireAdmin(), h.AssignTechnicianHandler)
		api.POST("/:id/verify-otp", middleware.RequireRole(utils.RoleTechnician), h.VerifyOTPHandler)
		api.POST("/:id/pickup", middleware.RequireRole(utils.RoleTechnician), h.ConfirmPickupHandler)
		api.POST("/:id/review", middleware.RequireRole(utils.RoleUser), h.SubmitReviewHandler)
	}
}

// RegisterTechnicianRoutes registers the technician directory endpoints.
func RegisterTechnicianRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Technician
	api := r.Group("/api/technicians")
	{
		// Identity is verified upstream by Firebase; registration and profile reads are public.
		api.POST("/register", h.RegisterTechnicianHandler)
		api.GET("", h.ListTechniciansHandler)
		api.GET("/:id", h.GetTechnicianHandler)
		api.GET("/firebase/:uid", h.GetByFirebaseUIDHandler)
		api.GET("/:id/reviews", h.ListReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(hb.Tokens, hb.AdminToken))
		protected.PATCH("/:id/online", middleware.RequireRole(utils.RoleTechnician), h.SetOnlineHandler)
		protected.PUT("/:id/fcm-token", middleware.RequireRole(utils.RoleTechnician), h.UpdateFCMTokenHandler)
		protected.PATCH("/:id/status", middleware.RequireAdmin(), h.UpdateStatusHandler)
		protected.DELETE("/:id", middleware.RequireAdmin(), h.DeleteTechnicianHandler)
	}
}

// RegisterCommissionRoutes registers commission policy endpoints.
func RegisterCommissionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Commission
	api := r.Group("/api/commissions")
	api.Use(middleware.AuthMiddleware(hb.Tokens, hb.AdminToken))
	{
		api.GET("", h.ListCommissionsHandler)
		api.GET("/:category", h.GetCommissionHandler)
		api.PUT("", middleware.RequireAdmin(), h.UpsertCommissionHandler)
		api.DELETE("/:category", middleware.RequireAdmin(), h.DeleteCommissionHandler)
	}
}

// RegisterNotificationRoutes registers inbox endpoints for the caller.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Notification
	api := r.Group("/api/notifications")
	api.Use(middleware.AuthMiddleware(hb.Tokens, hb.AdminToken))
	{
		api.GET("", h.ListNotificationsHandler)
		api.PATCH("/:id/seen", h.MarkSeenHandler)
		api.DELETE("", h.ClearAllHandler)
		api.PUT("/token", middleware.RequireRole(utils.RoleUser), h.RegisterTokenHandler)
	}
}

// RegisterPaymentRoutes registers payment endpoints. The webhook authenticates by signature.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	h := hb.Payment
	api := r.Group("/api/payments")
	{
		api.POST("/webhook", h.WebhookHandler)
		api.POST("/order",
			middleware.AuthMiddleware(hb.Tokens, hb.AdminToken),
			middleware.RequireRole(utils.RoleUser),
			h.CreateOrderHandler)
	}
}

// RegisterUploadRoutes registers file upload endpoints.
func RegisterUploadRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/uploads")
	api.Use(middleware.AuthMiddleware(hb.Tokens, hb.AdminToken))
	{
		api.POST("/pickup", middleware.RequireRole(utils.RoleTechnician), hb.Storage.UploadPickupImagesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterTechnicianRoutes(r, hb)
	RegisterCommissionRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterUploadRoutes(r, hb)
}
