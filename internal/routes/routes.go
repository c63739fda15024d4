package routes

import (
	"symptom-checker-server/internal/chat"
	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/handlers"
	"symptom-checker-server/internal/middleware"
	"symptom-checker-server/internal/models"
	"symptom-checker-server/internal/payment"
	"symptom-checker-server/internal/report"
	"symptom-checker-server/internal/twin"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services bundles the wired-up application services the routes depend on.
type Services struct {
	Reports  *report.Service
	Chat     *chat.Service
	Twins    *twin.Service
	Payments *payment.Service
	Redis    *redis.Client
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc Services) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	reportHandler := handlers.NewReportHandler(db, svc.Reports)
	chatHandler := handlers.NewChatHandler(svc.Chat)
	twinHandler := handlers.NewTwinHandler(svc.Twins)
	paymentHandler := handlers.NewPaymentHandler(db, svc.Payments)
	voiceHandler := handlers.NewVoiceHandler()

	// Everything under /api/v1 shares the rate limiter, ahead of auth, so
	// login floods and other anonymous traffic hit the IP bucket.
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg, svc.Redis))

	// Public routes (no authentication required)
	public := api.Group("")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Checkout callbacks arrive from the provider redirect, before the
		// client has re-attached its token.
		public.GET("/payments/verify", paymentHandler.Verify)
	}

	// Authenticated routes
	private := api.Group("")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Report routes
		reportRoutes := private.Group("/reports")
		{
			reportRoutes.POST("", reportHandler.Generate)
			reportRoutes.GET("", reportHandler.List)
			reportRoutes.GET("/:id", reportHandler.Get)
		}

		// Chat routes
		chatRoutes := private.Group("/chat")
		{
			chatRoutes.POST("/sessions", chatHandler.CreateSession)
			chatRoutes.GET("/sessions", chatHandler.ListSessions)
			chatRoutes.GET("/sessions/:id/messages", chatHandler.ListMessages)
			chatRoutes.POST("/sessions/:id/messages", chatHandler.SendMessage)
		}

		// Digital twin routes
		twinRoutes := private.Group("/twin")
		{
			twinRoutes.GET("", twinHandler.Get)
			twinRoutes.GET("/timeline", twinHandler.Timeline)
			twinRoutes.POST("/events", twinHandler.RecordEvent)
			twinRoutes.GET("/patterns", twinHandler.Patterns)
			twinRoutes.GET("/trajectory", twinHandler.Trajectory)
			twinRoutes.GET("/alerts", twinHandler.Alerts)
			twinRoutes.PATCH("/alerts/:id/read", twinHandler.MarkAlertRead)
		}

		// Payment routes
		paymentRoutes := private.Group("/payments")
		{
			paymentRoutes.POST("/initialize", paymentHandler.Initialize)
			paymentRoutes.GET("/subscription", paymentHandler.Subscription)
		}

		// Voice input
		private.POST("/voice/symptoms", voiceHandler.Match)

		// Admin-only routes
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/report-logs", reportHandler.Logs)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
