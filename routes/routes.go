package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/controllers"
	"github.com/miramar-experience/api-go/middleware"
)

// Controllers bundles everything SetupRoutes mounts.
type Controllers struct {
	Auth   *controllers.AuthController
	Places *controllers.PlaceController
	Ads    *controllers.AdController
	Admin  *controllers.AdminController
	Upload *controllers.UploadController
	Sync   *controllers.SyncController

	Authenticator middleware.Authenticator
	CronSecret    string
}

func SetupRoutes(r *gin.Engine, h Controllers) {
	api := r.Group("/api")

	// Public routes
	SetupPlaceRoutes(api, h.Places)
	SetupAuthRoutes(api, h.Auth)

	sync := api.Group("/sync")
	sync.Use(middleware.SyncAuth(h.Authenticator, h.CronSecret))
	{
		sync.GET("", h.Sync.TriggerSync)
		sync.POST("", h.Sync.TriggerSync)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.Authenticator), middleware.RequireAdmin())
	{
		SetupAdRoutes(admin, h.Ads)
		SetupAdminRoutes(admin, h.Admin)
		SetupUploadRoutes(admin, h.Upload)
		admin.POST("/sync", h.Sync.TriggerSync)
	}
}
