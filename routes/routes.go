package routes

import (
	"grants-marketplace-api/controllers"
	"grants-marketplace-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Grant listings
			public.GET("/grants", controllers.GetGrants)
			public.GET("/grants/:slug", controllers.GetGrant)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Grants Marketplace API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Grant applications (applicant-facing)
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)

				// Tranche requests (the first tranche is created on KYC
				// completion, later ones on the applicant's request)
				applications.POST("/:id/tranches", controllers.RequestTranche)
			}

			// Sponsor dashboard
			sponsor := protected.Group("/sponsor-dashboard")
			sponsor.Use(middleware.RequireRole(middleware.RoleSponsor, middleware.RoleAdmin))
			{
				sponsor.GET("/grants/:id/tranches", controllers.GetGrantTranches)
				sponsor.PATCH("/tranches/:id", controllers.DecideTranche)
			}
		}
	}
}
