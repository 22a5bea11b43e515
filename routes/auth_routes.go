package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/controllers"
)

func SetupAuthRoutes(public *gin.RouterGroup, authController *controllers.AuthController) {
	auth := public.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}
}
