// Package routes provides HTTP route configuration for the devstack backend.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/NaijaReels/naijareels-go/internal/devstack/store"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/security"
	"github.com/NaijaReels/naijareels-go/internal/presentation/http/handlers"
	"github.com/NaijaReels/naijareels-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(db *store.Store, issuer *security.TokenIssuer, logger *logging.ChanneledLogger) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	authHandlers := handlers.NewAuthHandlers(db, issuer, logger)
	userHandlers := handlers.NewUserHandlers(db, logger)
	movieHandlers := handlers.NewMovieHandlers(db, logger)
	rentalHandlers := handlers.NewRentalHandlers(db, logger)

	api := r.Group("/api")
	{
		// Public endpoints
		api.POST("/auth/login/", authHandlers.PostLogin)
		api.POST("/auth/register/", authHandlers.PostRegister)
		api.POST("/token/refresh/", authHandlers.PostRefresh)
		api.GET("/movies/", movieHandlers.GetMovies)
		api.GET("/movies/:id/", movieHandlers.GetMovie)

		// Any authenticated user
		authed := api.Group("")
		authed.Use(middleware.RequireAuth(issuer))
		{
			authed.GET("/users/me/", userHandlers.GetMe)
			authed.PATCH("/users/me/", userHandlers.PatchMe)
			authed.POST("/users/me/change-password/", userHandlers.PostChangePassword)
			authed.GET("/inventory/", movieHandlers.GetInventories)
			authed.GET("/rentals/", rentalHandlers.GetRentals)
			authed.POST("/rentals/", rentalHandlers.PostRental)
			authed.POST("/rentals/:id/return_movie/", rentalHandlers.PostReturn)
		}

		// Vendor endpoints (admins pass the role gate too)
		vendor := api.Group("")
		vendor.Use(middleware.RequireAuth(issuer), middleware.RequireRole(user.RoleVendor))
		{
			vendor.POST("/movies/", movieHandlers.PostMovie)
			vendor.PATCH("/movies/:id/", movieHandlers.PatchMovie)
			vendor.DELETE("/movies/:id/", movieHandlers.DeleteMovie)
			vendor.PATCH("/inventory/:id/", movieHandlers.PatchInventory)
			vendor.GET("/rentals/vendor/", rentalHandlers.GetVendorRentals)
			vendor.GET("/customers/", userHandlers.GetCustomers)
		}

		// Admin endpoints
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(issuer), middleware.RequireRole())
		{
			admin.GET("/users/", userHandlers.GetUsers)
			admin.PATCH("/users/:id/", userHandlers.PatchUser)
			admin.DELETE("/users/:id/", userHandlers.DeleteUser)
			admin.GET("/analytics/", rentalHandlers.GetAnalytics)
		}
	}

	return r
}
