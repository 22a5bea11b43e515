package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/services"
	"go.uber.org/zap"
)

// PlaceController serves the anonymous tourist pages.
type PlaceController struct {
	Listing   *services.ListingService
	Analytics *services.AnalyticsService
	Log       *zap.Logger
}

func NewPlaceController(listing *services.ListingService, analytics *services.AnalyticsService, log *zap.Logger) *PlaceController {
	return &PlaceController{Listing: listing, Analytics: analytics, Log: orNop(log)}
}

func (pc *PlaceController) GetHome(c *gin.Context) {
	ok(c, http.StatusOK, pc.Listing.Home(c.Request.Context()))
}

func (pc *PlaceController) GetPlaces(c *gin.Context) {
	var query struct {
		Q        string `form:"q"`
		Category string `form:"category"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ads, err := pc.Listing.Directory(c.Request.Context(), query.Category, query.Q)
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    ads,
		Meta:    gin.H{"total": len(ads), "category": query.Category, "q": query.Q},
	})
}

func (pc *PlaceController) GetMap(c *gin.Context) {
	ok(c, http.StatusOK, pc.Listing.Map(c.Request.Context()))
}

func (pc *PlaceController) GetPlaceDetails(c *gin.Context) {
	place, err := pc.Listing.Place(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, pc.Log, err)
		return
	}
	ok(c, http.StatusOK, place)
}

func (pc *PlaceController) GetCategories(c *gin.Context) {
	ok(c, http.StatusOK, pc.Listing.Categories())
}

// TrackEvent accepts the event immediately; storage happens in the background.
func (pc *PlaceController) TrackEvent(c *gin.Context) {
	var input struct {
		EventType models.EventType `json:"event_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := pc.Analytics.Track(c.Request.Context(), c.Param("id"), input.EventType); err != nil {
		respondError(c, pc.Log, err)
		return
	}
	c.JSON(http.StatusAccepted, StandardResponse{Success: true})
}
