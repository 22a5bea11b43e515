package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/services"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
)

// AdminController groups the read-mostly admin panel pages.
type AdminController struct {
	Dashboard *services.DashboardService
	Analytics *services.AnalyticsService
	Settings  *services.SettingsService
	Log       *zap.Logger
}

func NewAdminController(dashboard *services.DashboardService, analytics *services.AnalyticsService, settings *services.SettingsService, log *zap.Logger) *AdminController {
	return &AdminController{Dashboard: dashboard, Analytics: analytics, Settings: settings, Log: orNop(log)}
}

func (ac *AdminController) GetDashboard(c *gin.Context) {
	d, err := ac.Dashboard.Get(c.Request.Context(), utils.GetSession(c))
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, d)
}

func (ac *AdminController) GetAnalytics(c *gin.Context) {
	var query struct {
		Days int `form:"days" binding:"omitempty,min=1,max=365"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := ac.Analytics.Summary(c.Request.Context(), utils.GetSession(c), query.Days)
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

func (ac *AdminController) ListSettings(c *gin.Context) {
	settings, err := ac.Settings.List(c.Request.Context(), utils.GetSession(c))
	if err != nil {
		respondError(c, ac.Log, err)
		return
	}
	ok(c, http.StatusOK, settings)
}

func (ac *AdminController) UpdateSetting(c *gin.Context) {
	var input struct {
		Value *string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := ac.Settings.Set(c.Request.Context(), utils.GetSession(c), c.Param("key"), *input.Value); err != nil {
		respondError(c, ac.Log, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Setting saved"})
}
