package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/services"
	"github.com/miramar-experience/api-go/utils"
	"go.uber.org/zap"
)

type SyncController struct {
	Sync *services.SyncService
	Log  *zap.Logger
}

func NewSyncController(sync *services.SyncService, log *zap.Logger) *SyncController {
	return &SyncController{Sync: sync, Log: orNop(log)}
}

// TriggerSync republishes the knowledge sheet. Failures are reported with
// their underlying message so the scheduler log shows what broke.
func (sc *SyncController) TriggerSync(c *gin.Context) {
	result, err := sc.Sync.Sync(c.Request.Context(), utils.GetSession(c))
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		sc.Log.Error("sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"count":          result.Count,
		"spreadsheet_id": result.SpreadsheetID,
		"tab":            result.Tab,
	})
}
