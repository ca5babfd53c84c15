package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/ansarhub/donation-tracker-go/config"
	controllers "github.com/ansarhub/donation-tracker-go/controllers"
	middleware "github.com/ansarhub/donation-tracker-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	protect := middleware.Protect(cfg)
	admin := middleware.AdminOnly()

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", controllers.Login(cfg))
		auth.POST("/logout", controllers.Logout())
		auth.GET("/profile", protect, controllers.Profile(cfg))
	}

	projects := r.Group("/api/projects")
	{
		projects.GET("", controllers.ListProjects(cfg))
		projects.GET("/:id", controllers.GetProject(cfg))
		projects.POST("", protect, admin, controllers.CreateProject(cfg))
		projects.PATCH("/:id", protect, admin, controllers.UpdateProject(cfg))
	}

	methods := r.Group("/api/payment-methods")
	{
		methods.GET("", controllers.ListPaymentMethods(cfg))
		methods.POST("", protect, admin, controllers.CreatePaymentMethod(cfg))
		methods.PATCH("/:id", protect, admin, controllers.UpdatePaymentMethod(cfg))
		methods.DELETE("/:id", protect, admin, controllers.DeletePaymentMethod(cfg))
	}

	donations := r.Group("/api/donations")
	{
		donations.POST("", controllers.CreateDonation(cfg))
		donations.POST("/with-receipt", controllers.CreateDonationWithReceipt(cfg))
		donations.GET("", protect, admin, controllers.ListDonations(cfg))
		donations.PATCH("/:id/status", protect, admin, controllers.UpdateDonationStatus(cfg))
	}

	achievements := r.Group("/api/achievements")
	{
		achievements.GET("", controllers.ListAchievements(cfg))
		achievements.GET("/:id", controllers.GetAchievement(cfg))
		achievements.POST("", protect, admin, controllers.CreateAchievement(cfg))
		achievements.PATCH("/:id", protect, admin, controllers.UpdateAchievement(cfg))
		achievements.DELETE("/:id", protect, admin, controllers.DeleteAchievement(cfg))
	}

	r.GET("/api/statistics", controllers.GetSiteStatistics(cfg))
}
