package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/services"
	"github.com/miramar-experience/api-go/storage"
	"go.uber.org/zap"
)

type StandardResponse struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Meta    interface{}       `json:"meta,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, StandardResponse{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, StandardResponse{Success: false, Error: msg})
}

// respondError maps service errors onto status codes. Anything unrecognised
// is logged and reported as a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		validation *services.ValidationError
		capacity   *services.CapacityError
		policy     *storage.PolicyError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Error: "Validation failed", Errors: validation.Fields})
	case errors.As(err, &capacity):
		fail(c, http.StatusConflict, capacity.Error())
	case errors.As(err, &policy):
		fail(c, http.StatusBadRequest, policy.Reason)
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, storage.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, "Image uploads are not configured")
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
