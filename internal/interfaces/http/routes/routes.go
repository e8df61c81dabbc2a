// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/butcher-storefront/internal/config"
	"github.com/your-org/butcher-storefront/internal/domain/checkout"
	"github.com/your-org/butcher-storefront/internal/domain/session"
	"github.com/your-org/butcher-storefront/internal/infrastructure/remote"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/butcher-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/butcher-storefront/internal/pkg/auth"
)

// Deps are the services the route handlers share
type Deps struct {
	Config          *config.Config
	Log             *logrus.Logger
	Client          *remote.Client
	Sessions        *session.Manager
	CheckoutService *checkout.Service
	JWTManager      *auth.JWTManager
}

// SetupRoutes registers every /api/v1 route
func SetupRoutes(rg *gin.RouterGroup, deps Deps) {
	rg.Use(middleware.Session(deps.Config, deps.Sessions))

	SetupCatalogRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupPreferenceRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
}

// SetupCatalogRoutes sets up the public storefront routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Deps) {
	catalogHandler := handlers.NewCatalogHandler(deps.Client, deps.Log)

	rg.GET("/catalog", catalogHandler.GetCatalog)
	rg.POST("/catalog/staged", catalogHandler.ReclampStaged)
	rg.GET("/order-window", catalogHandler.GetOrderWindow)
	rg.GET("/dropoff-locations", catalogHandler.GetDropoffLocations)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Log)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/stock", cartHandler.CheckStock)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up order placement and tracking
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Deps) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService, deps.Log)

	rg.POST("/checkout", checkoutHandler.PlaceOrder)
	rg.POST("/orders/track", checkoutHandler.TrackOrder)
}

// SetupPreferenceRoutes sets up theme and wholesale pin routes
func SetupPreferenceRoutes(rg *gin.RouterGroup, deps Deps) {
	preferencesHandler := handlers.NewPreferencesHandler(deps.Log)

	prefs := rg.Group("/preferences")
	{
		prefs.GET("/theme", preferencesHandler.GetTheme)
		prefs.PUT("/theme", preferencesHandler.SetTheme)
		prefs.PUT("/wholesale-pin", preferencesHandler.SetWholesalePin)
		prefs.DELETE("/wholesale-pin", preferencesHandler.ClearWholesalePin)
	}
}

// SetupAdminRoutes sets up the back-office routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps Deps) {
	adminHandler := handlers.NewAdminHandler(deps.Client, deps.JWTManager, deps.Config, deps.Log)

	adminGroup := rg.Group("/admin")
	adminGroup.POST("/login", adminHandler.Login)
	adminGroup.POST("/logout", adminHandler.Logout)

	protected := adminGroup.Group("")
	protected.Use(middleware.AdminMiddleware(deps.Config, deps.JWTManager))
	{
		protected.GET("/me", adminHandler.Me)
		protected.GET("/dashboard", adminHandler.Dashboard)

		protected.GET("/products", adminHandler.ListProducts())
		protected.POST("/products", adminHandler.CreateProduct())
		protected.PUT("/products/:id", adminHandler.UpdateProduct())
		protected.DELETE("/products/:id", adminHandler.DeleteProduct())

		protected.GET("/categories", adminHandler.ListCategories())
		protected.POST("/categories", adminHandler.CreateCategory())
		protected.PUT("/categories/:id", adminHandler.UpdateCategory())
		protected.DELETE("/categories/:id", adminHandler.DeleteCategory())

		protected.GET("/windows", adminHandler.ListWindows())
		protected.POST("/windows", adminHandler.CreateWindow())
		protected.PUT("/windows/:id", adminHandler.UpdateWindow())
		protected.DELETE("/windows/:id", adminHandler.DeleteWindow())

		protected.GET("/dropoff-locations", adminHandler.ListDropoffLocations())
		protected.POST("/dropoff-locations", adminHandler.CreateDropoffLocation())
		protected.PUT("/dropoff-locations/:id", adminHandler.UpdateDropoffLocation())
		protected.DELETE("/dropoff-locations/:id", adminHandler.DeleteDropoffLocation())

		protected.GET("/orders", adminHandler.ListOrders)
		protected.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
		protected.PUT("/order-items/:id/weight", adminHandler.RecordWeight)

		protected.GET("/reports/summary", adminHandler.ReportsSummary)
		protected.GET("/reports/rollup", adminHandler.ReportsRollup)
	}
}
