package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	File         *handler.FileHandler
	Meetup       *handler.MeetupHandler
	Subscription *handler.SubscriptionHandler
}

// SetupRouter builds the gin engine. When filesDir is set, uploaded files
// are served from it under /files.
func SetupRouter(h Handlers, authMiddleware *middleware.AuthMiddleware, filesDir string) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies(nil)

	if filesDir != "" {
		r.Static("/files", filesDir)
	}

	// Public routes
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1")
	{
		public.POST("/users", h.Auth.Register)
		public.POST("/sessions", h.Auth.Login)
		public.POST("/sessions/refresh", h.Auth.RefreshToken)
		public.DELETE("/sessions", h.Auth.Logout)
	}

	// Protected API routes
	api := r.Group("/api/v1")
	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/users", h.User.GetProfile)
		api.PUT("/users", h.User.UpdateProfile)

		api.POST("/files", h.File.Upload)

		api.GET("/meetups", h.Meetup.List)
		api.POST("/meetups", h.Meetup.Create)
		api.GET("/meetups/:id", h.Meetup.Get)
		api.PUT("/meetups/:id", h.Meetup.Update)
		api.DELETE("/meetups/:id", h.Meetup.Delete)
		api.GET("/organizing", h.Meetup.Organized)

		api.GET("/subscriptions", h.Subscription.List)
		api.POST("/meetups/:id/subscriptions", h.Subscription.Subscribe)
		api.DELETE("/subscriptions/:id", h.Subscription.Cancel)
	}

	return r
}
