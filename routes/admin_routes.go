package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/controllers"
)

func SetupAdRoutes(admin *gin.RouterGroup, adController *controllers.AdController) {
	ads := admin.Group("/ads")
	{
		ads.GET("", adController.ListAds)
		ads.POST("", adController.CreateAd)
		ads.GET("/:id", adController.GetAd)
		ads.PATCH("/:id", adController.UpdateAd)
		ads.DELETE("/:id", adController.DeleteAd)
		ads.PATCH("/:id/status", adController.SetAdStatus)
	}
}

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController) {
	admin.GET("/dashboard", adminController.GetDashboard)
	admin.GET("/analytics", adminController.GetAnalytics)

	settings := admin.Group("/settings")
	{
		settings.GET("", adminController.ListSettings)
		settings.PUT("/:key", adminController.UpdateSetting)
	}
}

func SetupUploadRoutes(admin *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := admin.Group("/uploads")
	{
		uploads.POST("", uploadController.UploadImage)
		uploads.DELETE("/*key", uploadController.DeleteImage)
	}
}
