package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/internal/dto"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/response"
)

type FilterHandler struct {
	filters service.FilterService
}

func NewFilterHandler(filters service.FilterService) *FilterHandler {
	return &FilterHandler{filters: filters}
}

func (h *FilterHandler) Create(c *gin.Context) {
	var req dto.CreateFilterRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	filter, err := h.filters.Add(c.Request.Context(), req.Word)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"filter": filter})
}

func (h *FilterHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.filters.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": id})
}

func (h *FilterHandler) List(c *gin.Context) {
	page, err := h.filters.List(c.Request.Context(), parsePage(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"page": page})
}
