// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/Win2WinFormation/win2win-go/internal/application/container"
	"github.com/Win2WinFormation/win2win-go/internal/presentation/http/handlers"
	"github.com/Win2WinFormation/win2win-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	consentHandlers := handlers.NewConsentHandlers(c.ConsentService, c.EventService, c.Backend, c.Logger, c.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(c.EventService, c.Logger, c.PerfTracker)
	newsletterHandlers := handlers.NewNewsletterHandlers(c.NewsletterService, c.Logger, c.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(c.AuthService, c.Logger, c.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(c.Backend, c.ActivityBroadcaster, c.Logger, c.PerfTracker)

	api := r.Group("/api")
	{
		// Consent endpoints
		privacy := api.Group("/privacy")
		{
			privacy.POST("/consent", consentHandlers.PostConsent)
			privacy.PUT("/consent", consentHandlers.PostConsent)
			privacy.GET("/consent", consentHandlers.GetConsent)
			privacy.DELETE("/consent", consentHandlers.DeleteConsent)
		}

		// Event collection endpoints
		analytics := api.Group("/analytics")
		{
			analytics.POST("/events", analyticsHandlers.PostEvent)
			analytics.POST("/pageviews", analyticsHandlers.PostPageView)
		}

		// Newsletter
		api.POST("/newsletter/subscribe", newsletterHandlers.PostSubscribe)

		// Admin back-office endpoints
		admin := api.Group("/admin")
		{
			admin.POST("/login", authHandlers.PostLogin)

			authed := admin.Group("")
			authed.Use(authHandlers.AuthMiddleware())
			{
				authed.GET("/consent", adminHandlers.GetConsentLookup)
				authed.GET("/activity/ws", adminHandlers.GetActivityFeed)
			}
		}
	}

	return r
}
