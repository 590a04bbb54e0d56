package handler

import (
	"net/http"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/service"
	"wsuconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type LecturerHandler struct {
	service service.DirectoryService
}

func NewLecturerHandler(service service.DirectoryService) *LecturerHandler {
	return &LecturerHandler{service: service}
}

// List serves the lecturer directory, optionally filtered by ?search=.
func (h *LecturerHandler) List(c *gin.Context) {
	var filter dto.DirectoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	entries, err := h.service.ListLecturers(c.Request.Context(), filter.Search)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
