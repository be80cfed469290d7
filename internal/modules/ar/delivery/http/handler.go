package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	arDto "github.com/quantummesh/impactview/internal/modules/ar/dto"
	arService "github.com/quantummesh/impactview/internal/modules/ar/service"
	"github.com/quantummesh/impactview/pkg/response"
	"github.com/quantummesh/impactview/pkg/validator"
)

type ARHandler struct {
	service arService.ARService
}

func NewARHandler(service arService.ARService) *ARHandler {
	return &ARHandler{service: service}
}

func (h *ARHandler) Markers(c *gin.Context) {
	var viewer arDto.ViewerInput
	if err := c.ShouldBindQuery(&viewer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	markers, err := h.service.Markers(c.Request.Context(), viewer)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, markers)
}
