package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/miramar-experience/api-go/storage"
	"go.uber.org/zap"
)

// UploadController stores ad images. Images is nil when R2 is not configured.
type UploadController struct {
	Images *storage.ImageStore
	Log    *zap.Logger
}

func NewUploadController(images *storage.ImageStore, log *zap.Logger) *UploadController {
	return &UploadController{Images: images, Log: orNop(log)}
}

// UploadImage takes a multipart "file" field and returns its public URL.
func (uc *UploadController) UploadImage(c *gin.Context) {
	if uc.Images == nil {
		respondError(c, uc.Log, storage.ErrNotConfigured)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if err := uc.Images.Policy().CheckSize(header.Size); err != nil {
		respondError(c, uc.Log, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "could not read file")
		return
	}
	defer file.Close()

	upload, err := uc.Images.Put(c.Request.Context(), header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	uc.Log.Info("image uploaded", zap.String("key", upload.Key), zap.Int64("size", upload.Size))
	ok(c, http.StatusCreated, upload)
}

func (uc *UploadController) DeleteImage(c *gin.Context) {
	if uc.Images == nil {
		respondError(c, uc.Log, storage.ErrNotConfigured)
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := uc.Images.Delete(c.Request.Context(), key); err != nil {
		respondError(c, uc.Log, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Image deleted"})
}
