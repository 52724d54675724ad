// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/techstore-backend/internal/config"
	"github.com/javajoker/techstore-backend/internal/handlers"
	"github.com/javajoker/techstore-backend/internal/middleware"
	"github.com/javajoker/techstore-backend/internal/services"
	"github.com/javajoker/techstore-backend/internal/utils"
)

// Services are the long-lived components the routes are served by.
type Services struct {
	Catalog       *services.CatalogService
	Sessions      *services.SessionService
	Notifications *services.NotificationService
	Geocoder      handlers.ReverseGeocoder
	Settings      services.StorefrontSettings
}

func Initialize(cfg *config.Config, svc Services) *gin.Engine {
	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(svc.Sessions, time.Duration(cfg.Session.TTLHours)*time.Hour)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, svc.Settings)
	filterHandler := handlers.NewFilterHandler()
	cartHandler := handlers.NewCartHandler()
	checkoutHandler := handlers.NewCheckoutHandler()
	orderHandler := handlers.NewOrderHandler()
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	locationHandler := handlers.NewLocationHandler(svc.Geocoder, cfg.Geocoding)

	// Set JWT secret
	utils.SetJWTSecret(cfg.Session.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	if cfg.Server.RateLimit {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"version":        "1.0.0",
			"catalog_loaded": svc.Catalog.Loaded(),
			"sessions":       svc.Sessions.Len(),
		})
	})

	sessionRequired := middleware.SessionRequired(svc.Sessions)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Session routes
		sessions := v1.Group("/sessions")
		if cfg.Server.RateLimit {
			sessions.Use(middleware.SessionRateLimit())
		}
		{
			sessions.POST("", sessionHandler.CreateSession)
		}

		// Catalog routes
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", sessionRequired, catalogHandler.GetCatalog)
			if cfg.Server.RateLimit {
				catalog.POST("/reload", middleware.CatalogReloadRateLimit(), catalogHandler.ReloadCatalog)
			} else {
				catalog.POST("/reload", catalogHandler.ReloadCatalog)
			}
			catalog.GET("/categories", catalogHandler.GetCategories)
			catalog.GET("/ratings", catalogHandler.GetRatingHighlights)
		}

		// Product routes (public)
		products := v1.Group("/products")
		{
			products.GET("/:id", catalogHandler.GetProduct)
		}

		// Filter routes
		filters := v1.Group("/filters")
		filters.Use(sessionRequired)
		{
			filters.PUT("", filterHandler.UpdateFilters)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(sessionRequired)
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.DELETE("/items/:index", cartHandler.RemoveItem)
		}

		// Checkout routes
		checkout := v1.Group("/checkout")
		checkout.Use(sessionRequired)
		{
			if cfg.Server.RateLimit {
				checkout.POST("", middleware.CheckoutRateLimit(), checkoutHandler.StartCheckout)
			} else {
				checkout.POST("", checkoutHandler.StartCheckout)
			}
			checkout.GET("", checkoutHandler.GetCheckout)
			checkout.DELETE("", checkoutHandler.CancelCheckout)
			checkout.GET("/qrcode.png", checkoutHandler.GetQRCode)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(sessionRequired)
		{
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(sessionRequired)
		{
			notifications.GET("", notificationHandler.DrainNotifications)
		}

		// Location routes (public)
		v1.GET("/location", locationHandler.GetLocation)
	}

	return r
}
