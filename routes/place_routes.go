package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/controllers"
)

func SetupPlaceRoutes(public *gin.RouterGroup, placeController *controllers.PlaceController) {
	public.GET("/home", placeController.GetHome)
	public.GET("/categories", placeController.GetCategories)

	places := public.Group("/places")
	{
		places.GET("", placeController.GetPlaces)
		places.GET("/map", placeController.GetMap)
		places.GET("/:id", placeController.GetPlaceDetails)
		places.POST("/:id/events", placeController.TrackEvent)
	}
}
