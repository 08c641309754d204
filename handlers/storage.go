package handlers

import (
	"fmt"
	"net/http"

	"ziyonstar/services/storage"
	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxPickupImages    = 6
	maxPickupImageSize = 10 << 20
)

// StorageHandler uploads pickup photos. StorageSvc is nil when storage is not configured.
type StorageHandler struct {
	StorageSvc storage.StorageService
}

// UploadPickupImagesHandler handles POST /api/uploads/pickup as multipart with
// a bookingId field and one or more "images" files. It returns the secure URLs.
func (h *StorageHandler) UploadPickupImagesHandler(c *gin.Context) {
	if h.StorageSvc == nil {
		utils.JSONError(c, getLogger(c), http.StatusServiceUnavailable, "File storage is not configured", "")
		return
	}
	bookingID := c.PostForm("bookingId")
	if bookingID == "" {
		badRequest(c, "bookingId is required")
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "images not provided")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		badRequest(c, "images not provided")
		return
	}
	if len(files) > maxPickupImages {
		badRequest(c, fmt.Sprintf("at most %d images are allowed", maxPickupImages))
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxPickupImageSize {
			badRequest(c, fmt.Sprintf("%s exceeds the 10MB limit", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "failed to read "+fh.Filename)
			return
		}
		url, err := h.StorageSvc.UploadPickupImage(c.Request.Context(), bookingID, fh.Filename, f)
		f.Close()
		if err != nil {
			getLogger(c).Error("Pickup image upload failed", zap.String("bookingId", bookingID), zap.Error(err))
			utils.JSONError(c, getLogger(c), http.StatusBadGateway, "Failed to upload file", "")
			return
		}
		urls = append(urls, url)
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "urls": urls})
}
