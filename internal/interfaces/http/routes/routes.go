// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/linseaa/storefront-gateway/internal/domain/checkout"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http/handlers"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
)

// Deps carries everything the route tree needs
type Deps struct {
	Config   *config.Config
	Registry *session.Registry
	Products *catalog.Store
	Checkout *checkout.Service
	Logger   *logrus.Logger
}

// SetupAuthRoutes sets up the sign-in and sign-up routes
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Config)

	auth := r.Group("/auth")
	{
		auth.GET("", authHandler.ShowLogin)
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/logout", authHandler.Logout)
	}
}

// SetupCatalogRoutes sets up the public storefront pages
func SetupCatalogRoutes(r *gin.Engine, deps Deps) {
	catalogHandler := handlers.NewCatalogHandler(deps.Products, deps.Registry, deps.Logger)
	pagesHandler := handlers.NewPagesHandler()

	r.GET("/", catalogHandler.Home)
	r.GET("/products", catalogHandler.ListProducts)
	r.GET("/products/:category", catalogHandler.ListByCategory)
	r.GET("/products/:category/:id", catalogHandler.ProductDetails)
	r.GET("/terms", pagesHandler.StaticView("terms"))
	r.GET("/mission", pagesHandler.StaticView("mission"))
}

// SetupCartRoutes sets up the cart page, its mutations, and checkout
func SetupCartRoutes(r *gin.Engine, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Products, deps.Checkout, deps.Logger)
	addressHandler := handlers.NewAddressHandler(deps.Logger)

	cart := r.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.POST("/checkout", cartHandler.Checkout)
	}

	addresses := r.Group("")
	addresses.Use(middleware.RequireAuthenticated())
	{
		addresses.GET("/addresses", addressHandler.ListAddresses)
		addresses.POST("/add-address", addressHandler.AddAddress)
		addresses.PUT("/addresses/select", addressHandler.SelectAddress)
	}
}

// SetupAccountRoutes sets up the signed-in-only pages. Anonymous
// visitors are redirected to /auth with the original location captured.
func SetupAccountRoutes(r *gin.Engine, deps Deps) {
	pagesHandler := handlers.NewPagesHandler()

	account := r.Group("")
	account.Use(middleware.RequireAuthenticated())
	{
		account.GET("/my-orders", pagesHandler.IdentityView("my-orders"))

		dashboard := account.Group("/dashboard")
		{
			dashboard.GET("", pagesHandler.IdentityView("dashboard"))
			dashboard.GET("/profile", pagesHandler.IdentityView("dashboard-profile"))
			dashboard.GET("/orders", pagesHandler.IdentityView("dashboard-orders"))
		}
	}
}

// SetupRoleRoutes sets up the seller and producer areas. A request
// without the role gets the area's login view instead of a redirect.
func SetupRoleRoutes(r *gin.Engine, deps Deps) {
	pagesHandler := handlers.NewPagesHandler()

	seller := r.Group("/seller")
	seller.Use(middleware.RequireRole(session.RoleSeller, "seller-login"))
	{
		seller.GET("", pagesHandler.IdentityView("seller"))
		seller.GET("/product-list", pagesHandler.IdentityView("seller-product-list"))
		seller.GET("/orders", pagesHandler.IdentityView("seller-orders"))
	}

	producer := r.Group("/producer")
	producer.Use(middleware.RequireRole(session.RoleProducer, "producer-login"))
	{
		producer.GET("", pagesHandler.IdentityView("producer"))
		producer.GET("/listings", pagesHandler.IdentityView("producer-listings"))
	}
}

// SetupRoutes wires the whole route surface
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupAuthRoutes(r, deps)
	SetupCatalogRoutes(r, deps)
	SetupCartRoutes(r, deps)
	SetupAccountRoutes(r, deps)
	SetupRoleRoutes(r, deps)

	pagesHandler := handlers.NewPagesHandler()
	r.NoRoute(pagesHandler.NotFound)
}
