package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/tripsync/internal/handler"
	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
	"github.com/EgehanKilicarslan/tripsync/internal/middleware"
	"github.com/EgehanKilicarslan/tripsync/internal/storage"
)

// healthTimeout bounds the dependency check behind /api/health
const healthTimeout = 2 * time.Second

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Auth       *handler.AuthHandler
	Listing    *handler.ListingHandler
	Message    *handler.MessageHandler
	Upload     *handler.UploadHandler
	User       *handler.UserHandler
	Friendship *handler.FriendshipHandler
	Payment    *handler.PaymentHandler
}

// RouterConfig carries everything the router needs besides the handlers
type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	AuthLimiter    middleware.Limiter
	MessageLimiter middleware.Limiter
	Metrics        *metrics.Metrics
	UploadDir      string
	HealthCheck    func(ctx context.Context) error
	Logger         *slog.Logger
}

func SetupRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)
	r.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogger(cfg.Logger),
		middleware.Metrics(cfg.Metrics),
	)

	// Public routes
	r.GET("/api/health", healthHandler(cfg.HealthCheck))
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	r.Static(storage.PublicPrefix, cfg.UploadDir)

	requireAuth := cfg.AuthMiddleware.RequireAuth()
	authLimit := middleware.RateLimit("auth", cfg.AuthLimiter, middleware.ByClientIP, cfg.Metrics, cfg.Logger)
	messageLimit := middleware.RateLimit("messages", cfg.MessageLimiter, middleware.ByUser, cfg.Metrics, cfg.Logger)

	// Auth routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", authLimit, h.Auth.Signup)
		authGroup.POST("/login", authLimit, h.Auth.Login)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
	}

	// Listing browsing is public, changes need a session
	listings := r.Group("/api/listings")
	{
		listings.GET("", h.Listing.List)
		listings.GET("/:id", h.Listing.Get)
		listings.POST("", requireAuth, h.Listing.Create)
		listings.POST("/:id/reviews", requireAuth, h.Listing.CreateReview)
	}

	// Protected API routes
	api := r.Group("/api")
	api.Use(requireAuth)
	{
		api.GET("/messages", h.Message.List)
		api.POST("/messages", messageLimit, h.Message.Send)

		api.POST("/uploads/listing", h.Upload.UploadListingImage)
		api.POST("/uploads/profile", h.Upload.UploadAvatar)

		api.GET("/users/profile", h.User.GetProfile)
		api.PUT("/users/profile", h.User.UpdateProfile)

		api.GET("/friends", h.Friendship.ListFriends)
		api.GET("/friends/requests", h.Friendship.ListRequests)
		api.POST("/friends", h.Friendship.SendRequest)
		api.PUT("/friends/:id/accept", h.Friendship.AcceptRequest)

		api.POST("/payments", h.Payment.Checkout)
		api.GET("/payments", h.Payment.List)
	}

	return r
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
