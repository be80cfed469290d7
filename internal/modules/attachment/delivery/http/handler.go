package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	attachmentService "github.com/quantummesh/impactview/internal/modules/attachment/service"
	"github.com/quantummesh/impactview/pkg/response"
)

// maxUploadBytes caps proof images at 10 MB.
const maxUploadBytes = 10 << 20

type AttachmentHandler struct {
	service attachmentService.AttachmentService
}

func NewAttachmentHandler(service attachmentService.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file must be at most 10MB"})
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only image uploads are accepted"})
		return
	}

	resp, err := h.service.Upload(c.Request.Context(), userID, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
