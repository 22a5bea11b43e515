package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/models"
	"github.com/miramar-experience/api-go/services"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
)

// AdController is the admin ad CRUD. Authorization happens in the service.
type AdController struct {
	Ads *services.AdService
	Log *zap.Logger
}

func NewAdController(ads *services.AdService, log *zap.Logger) *AdController {
	return &AdController{Ads: ads, Log: orNop(log)}
}

func (ac *AdController) ListAds(c *gin.Context) {
	var query struct {
		Tier     string `form:"tier" binding:"omitempty,oneof=hero featured standard"`
		Category string `form:"category"`
		Q        string `form:"q"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ads, err := ac.Ads.List(c.Request.Context(), utils.GetSession(c), services.AdListQuery{
		Tier:     models.Tier(query.Tier),
		Category: models.Category(query.Category),
		Search:   query.Q,
	})
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    ads,
		Meta:    gin.H{"total": len(ads), "hero_limit": ac.Ads.HeroLimit()},
	})
}

func (ac *AdController) GetAd(c *gin.Context) {
	ad, err := ac.Ads.Get(c.Request.Context(), utils.GetSession(c), c.Param("id"))
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, ad)
}

func (ac *AdController) CreateAd(c *gin.Context) {
	var input services.AdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ad, err := ac.Ads.Create(c.Request.Context(), utils.GetSession(c), input)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusCreated, ad)
}

func (ac *AdController) UpdateAd(c *gin.Context) {
	var input services.AdUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ad, err := ac.Ads.Update(c.Request.Context(), utils.GetSession(c), c.Param("id"), input)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, ad)
}

func (ac *AdController) SetAdStatus(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ad, err := ac.Ads.SetStatus(c.Request.Context(), utils.GetSession(c), c.Param("id"), *input.IsActive)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, ad)
}

func (ac *AdController) DeleteAd(c *gin.Context) {
	if err := ac.Ads.Delete(c.Request.Context(), utils.GetSession(c), c.Param("id")); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Ad deleted"})
}
